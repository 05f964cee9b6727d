package output

import (
	"encoding/json"

	"github.com/ivoronin/saltmatch/internal/compound"
)

// EvalOutput implements Formatter for a single evaluated expression.
type EvalOutput struct {
	Expression string
	Target     string
	Value      compound.Value
}

type jsonEval struct {
	Expression string         `json:"expression"`
	Target     string         `json:"target"`
	Value      compound.Value `json:"value"`
	Kind       string         `json:"kind"`
	Matched    bool           `json:"matched"`
}

// FormatText returns the value as the expression language prints it.
func (e *EvalOutput) FormatText() string {
	return e.Value.String()
}

// FormatJSON returns the value together with its kind and truthiness.
func (e *EvalOutput) FormatJSON() ([]byte, error) {
	return json.MarshalIndent(jsonEval{
		Expression: e.Expression,
		Target:     e.Target,
		Value:      e.Value,
		Kind:       e.Value.Kind().String(),
		Matched:    e.Value.Truthy(),
	}, "", "  ")
}
