package main

import (
	"errors"
	"fmt"

	"github.com/ivoronin/saltmatch/internal/compound"
)

// Process exit codes.
const (
	ExitSuccess          = 0 // command succeeded, expression truthy
	ExitFalse            = 1 // expression evaluated falsy or matched no target
	ExitInputError       = 2 // bad flags, roster, syntax, lookup or type error
	ExitEnvironmentError = 3 // a lookup collaborator failed
)

// exitError carries the exit code a command wants. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func inputError(err error) error {
	return &exitError{code: ExitInputError, err: err}
}

// evalError maps an evaluation error to its exit code.
func evalError(err error) error {
	var envErr *compound.EnvironmentError
	if errors.As(err, &envErr) {
		return &exitError{code: ExitEnvironmentError, err: err}
	}
	return inputError(err)
}
