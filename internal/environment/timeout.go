package environment

import (
	"context"
	"fmt"
	"time"

	"github.com/ivoronin/saltmatch/internal/compound"
)

// Timeout bounds module calls of the wrapped Environment by Ctx and Limit.
// Grain and pillar lookups pass straight through.
type Timeout struct {
	compound.Environment
	Ctx   context.Context
	Limit time.Duration
}

// WithTimeout wraps env so that each module call fails after limit or once
// ctx is done. With a non-positive limit and a ctx that is never cancelled,
// env is returned unchanged.
func WithTimeout(ctx context.Context, env compound.Environment, limit time.Duration) compound.Environment {
	if limit <= 0 && ctx.Done() == nil {
		return env
	}
	return &Timeout{Environment: env, Ctx: ctx, Limit: limit}
}

type moduleResult struct {
	value compound.Value
	err   error
}

// CallModule runs the wrapped call and abandons it when the deadline passes
// or Ctx is cancelled. The abandoned call keeps running in its goroutine; its
// result is dropped.
func (t *Timeout) CallModule(module, function string) (compound.Value, error) {
	parent := t.Ctx
	if parent == nil {
		parent = context.Background()
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if t.Limit > 0 {
		ctx, cancel = context.WithTimeout(parent, t.Limit)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	done := make(chan moduleResult, 1)
	go func() {
		v, err := t.Environment.CallModule(module, function)
		done <- moduleResult{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return compound.Absent, fmt.Errorf("module %s.%s: %w", module, function, ctx.Err())
	}
}
