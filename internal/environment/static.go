// Package environment provides compound.Environment implementations backed
// by in-memory grain, pillar and module data.
package environment

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivoronin/saltmatch/internal/compound"
)

// Delimiter separates path segments in nested grain and pillar keys.
const Delimiter = ":"

// ModuleFunc computes a module result on demand.
type ModuleFunc func() (any, error)

// Static resolves references from plain maps, as decoded from YAML or JSON.
// Module results are keyed by "module.function" and may be either a value or
// a ModuleFunc.
type Static struct {
	GrainData  map[string]any
	PillarData map[string]any
	ModuleData map[string]any
}

var _ compound.Environment = (*Static)(nil)

// Grain implements compound.Environment.
func (s *Static) Grain(key string) (compound.Value, error) {
	return lookup(s.GrainData, compound.RefGrain, key)
}

// Pillar implements compound.Environment.
func (s *Static) Pillar(key string) (compound.Value, error) {
	return lookup(s.PillarData, compound.RefPillar, key)
}

// CallModule implements compound.Environment.
func (s *Static) CallModule(module, function string) (compound.Value, error) {
	name := module + "." + function
	raw, ok := s.ModuleData[name]
	if !ok {
		return compound.Absent, &compound.LookupError{Kind: compound.RefModule, Key: name}
	}
	if fn, ok := raw.(ModuleFunc); ok {
		out, err := fn()
		if err != nil {
			return compound.Absent, err
		}
		raw = out
	}
	return FromAny(raw)
}

func lookup(data map[string]any, kind compound.RefKind, key string) (compound.Value, error) {
	raw, ok := Traverse(data, key)
	if !ok {
		return compound.Absent, &compound.LookupError{Kind: kind, Key: key}
	}
	return FromAny(raw)
}

// Traverse resolves a colon-delimited key through nested maps. An exact match
// on the whole key takes precedence over traversal.
func Traverse(data map[string]any, key string) (any, bool) {
	if v, ok := data[key]; ok {
		return v, true
	}

	var cur any = data
	for _, part := range strings.Split(key, Delimiter) {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[any]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(m) {
				return nil, false
			}
			cur = m[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// FromAny converts decoded YAML/JSON data into a compound.Value. Floats become
// strings and lists or maps become their compact JSON text, since the
// expression language has no such kinds.
func FromAny(raw any) (compound.Value, error) {
	switch v := raw.(type) {
	case nil:
		return compound.Absent, nil
	case compound.Value:
		return v, nil
	case string:
		return compound.String(v), nil
	case bool:
		return compound.Boolean(v), nil
	case int:
		return compound.Integer(int64(v)), nil
	case int32:
		return compound.Integer(int64(v)), nil
	case int64:
		return compound.Integer(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return compound.String(strconv.FormatUint(v, 10)), nil
		}
		return compound.Integer(int64(v)), nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return compound.Integer(int64(v)), nil
		}
		return compound.String(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return compound.Integer(i), nil
		}
		return compound.String(v.String()), nil
	case []any, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return compound.Absent, fmt.Errorf("encode composite value: %w", err)
		}
		return compound.String(string(data)), nil
	default:
		return compound.Absent, fmt.Errorf("unsupported value type %T", raw)
	}
}
