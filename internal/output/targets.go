package output

import (
	"encoding/json"
	"sort"

	"github.com/ivoronin/saltmatch/internal/roster"
	"github.com/ivoronin/saltmatch/internal/version"
)

// TargetEntry summarises one roster target.
type TargetEntry struct {
	Target    string `json:"target"`
	OS        string `json:"os"`
	OSRelease string `json:"osrelease"`
	Grains    int    `json:"grains"`
	Pillar    int    `json:"pillar"`
	Modules   int    `json:"modules"`
}

// TargetList implements Formatter for roster and cache listings.
type TargetList struct {
	Entries []TargetEntry
}

// NewTargetList summarises targets sorted by os, osrelease and ID.
func NewTargetList(targets []roster.Target) *TargetList {
	l := &TargetList{Entries: make([]TargetEntry, 0, len(targets))}
	for _, t := range targets {
		l.Entries = append(l.Entries, TargetEntry{
			Target:    t.ID,
			OS:        t.GrainString("os"),
			OSRelease: t.GrainString("osrelease"),
			Grains:    len(t.Grains),
			Pillar:    len(t.Pillar),
			Modules:   len(t.Modules),
		})
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
	return l
}

// FormatText returns kubectl-style table output.
// Header: TARGET, OS, OSRELEASE, GRAINS, PILLAR, MODULES
func (l *TargetList) FormatText() string {
	if len(l.Entries) == 0 {
		return ""
	}
	tw := NewTableWriter()
	tw.Header("TARGET", "OS", "OSRELEASE", "GRAINS", "PILLAR", "MODULES")
	for _, e := range l.Entries {
		tw.Row(e.Target, dash(e.OS), dash(e.OSRelease), itoa(e.Grains), itoa(e.Pillar), itoa(e.Modules))
	}
	return tw.String()
}

// FormatJSON returns JSON array output.
func (l *TargetList) FormatJSON() ([]byte, error) {
	if len(l.Entries) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(l.Entries, "", "  ")
}
