// Package roster loads the targets an expression is matched against.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivoronin/saltmatch/internal/environment"
)

// LocalTarget is the ID given to a single-target document.
const LocalTarget = "local"

// ErrUnknownTarget is returned by Find for an ID not present in the roster.
var ErrUnknownTarget = errors.New("unknown target")

// Target is one managed host and the data its expressions resolve against.
type Target struct {
	ID      string `yaml:"-" json:"-"`
	Grains  Data   `yaml:"grains,omitempty" json:"grains,omitempty"`
	Pillar  Data   `yaml:"pillar,omitempty" json:"pillar,omitempty"`
	Modules Data   `yaml:"modules,omitempty" json:"modules,omitempty"`
}

// Environment returns a static environment over the target's data.
func (t Target) Environment() *environment.Static {
	return &environment.Static{GrainData: t.Grains, PillarData: t.Pillar, ModuleData: t.Modules}
}

// GrainString returns a top-level grain rendered as text, or "" when unset.
func (t Target) GrainString(key string) string {
	v, ok := t.Grains[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Roster is an ordered set of targets.
type Roster struct {
	Targets []Target
}

// Find returns the target with the given ID.
func (r *Roster) Find(id string) (Target, error) {
	for _, t := range r.Targets {
		if t.ID == id {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %s", ErrUnknownTarget, id)
}

// document is the on-disk shape: either a map of targets or a single
// target's data at the top level.
type document struct {
	Targets map[string]Target `yaml:"targets" json:"targets"`
	Target  `yaml:",inline"`
}

// LoadFile loads a roster, choosing the format by extension.
// Supported extensions: .yaml, .yml, .json, .db, .sqlite
func LoadFile(path string) (*Roster, error) {
	var parse func([]byte) (*Roster, error)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".db", ".sqlite":
		return loadSQLite(path)
	case ".yaml", ".yml":
		parse = FromYAML
	case ".json":
		parse = FromJSON
	default:
		return nil, fmt.Errorf("unsupported roster file extension: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return parse(data)
}

// FromYAML parses a YAML roster document.
func FromYAML(data []byte) (*Roster, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return doc.roster()
}

// FromJSON parses a JSON roster document.
func FromJSON(data []byte) (*Roster, error) {
	var targets struct {
		Targets map[string]Target `json:"targets"`
	}
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	var single Target
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	doc := document{Targets: targets.Targets, Target: single}
	return doc.roster()
}

func (d document) roster() (*Roster, error) {
	single := len(d.Grains) > 0 || len(d.Pillar) > 0 || len(d.Modules) > 0
	if single && len(d.Targets) > 0 {
		return nil, fmt.Errorf("roster mixes top-level data with a targets section")
	}

	if single {
		t := d.Target
		t.ID = LocalTarget
		return &Roster{Targets: []Target{t}}, nil
	}

	ids := make([]string, 0, len(d.Targets))
	for id := range d.Targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r := &Roster{Targets: make([]Target, 0, len(ids))}
	for _, id := range ids {
		t := d.Targets[id]
		t.ID = id
		r.Targets = append(r.Targets, t)
	}
	return r, nil
}
