package output

import (
	"encoding/json"
	"sort"

	"github.com/fatih/color"

	"github.com/ivoronin/saltmatch/internal/targeting"
	"github.com/ivoronin/saltmatch/internal/version"
)

var (
	matchColor = color.New(color.FgGreen)
	missColor  = color.New(color.FgRed)
	errorColor = color.New(color.FgYellow)
)

// MatchEntry is one target's row in a match listing.
type MatchEntry struct {
	Target    string `json:"target"`
	OS        string `json:"os"`
	OSRelease string `json:"osrelease"`
	Value     string `json:"value"`
	Kind      string `json:"kind"`
	Matched   bool   `json:"matched"`
	Error     string `json:"error,omitempty"`
}

// MatchList implements Formatter for the targets an expression selected.
// Unless All is set, only matching targets are listed.
type MatchList struct {
	Entries []MatchEntry
	All     bool
	sorted  bool
}

// NewMatchList builds a listing from targeting results.
func NewMatchList(results []targeting.Result, all bool) *MatchList {
	l := &MatchList{All: all, Entries: make([]MatchEntry, 0, len(results))}
	for _, r := range results {
		e := MatchEntry{
			Target:    r.Target.ID,
			OS:        r.Target.GrainString("os"),
			OSRelease: r.Target.GrainString("osrelease"),
			Value:     r.Value.String(),
			Kind:      r.Value.Kind().String(),
			Matched:   r.Matched,
		}
		if r.Err != nil {
			e.Value = ""
			e.Error = r.Err.Error()
		}
		l.Entries = append(l.Entries, e)
	}
	return l
}

// sort sorts entries by os ASC, osrelease ASC (semver), target ASC.
func (l *MatchList) sort() {
	if l.sorted {
		return
	}
	sort.SliceStable(l.Entries, func(i, j int) bool {
		a, b := l.Entries[i], l.Entries[j]
		if a.OS != b.OS {
			return a.OS < b.OS
		}
		if c := version.Compare(a.OSRelease, b.OSRelease); c != 0 {
			return c < 0
		}
		return a.Target < b.Target
	})
	l.sorted = true
}

func (l *MatchList) visible() []MatchEntry {
	l.sort()
	if l.All {
		return l.Entries
	}
	out := make([]MatchEntry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.Matched {
			out = append(out, e)
		}
	}
	return out
}

// FormatText returns kubectl-style table output with aligned columns.
// Header: TARGET, OS, OSRELEASE, VALUE, MATCH
func (l *MatchList) FormatText() string {
	entries := l.visible()
	if len(entries) == 0 {
		return ""
	}

	tw := NewTableWriter()
	tw.Header("TARGET", "OS", "OSRELEASE", "VALUE", "MATCH")

	for _, e := range entries {
		status, c := "no", missColor
		switch {
		case e.Error != "":
			status, c = "error: "+e.Error, errorColor
		case e.Matched:
			status, c = "yes", matchColor
		}
		tw.StatusRow(c, e.Target, dash(e.OS), dash(e.OSRelease), dash(e.Value), status)
	}

	return tw.String()
}

// FormatJSON returns JSON array output.
func (l *MatchList) FormatJSON() ([]byte, error) {
	entries := l.visible()
	if len(entries) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(entries, "", "  ")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
