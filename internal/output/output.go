// Package output renders evaluation results as text tables or JSON.
package output

import (
	"fmt"
	"io"
)

// Format selects text or JSON rendering.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// FormatFor maps a --json flag to a Format.
func FormatFor(asJSON bool) Format {
	if asJSON {
		return FormatJSON
	}
	return FormatText
}

// Formatter is implemented by every printable result.
type Formatter interface {
	FormatText() string
	FormatJSON() ([]byte, error)
}

// FormatOutput renders f in the requested format.
func FormatOutput(f Formatter, format Format) (string, error) {
	if format != FormatJSON {
		return f.FormatText(), nil
	}

	data, err := f.FormatJSON()
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(data), nil
}

// Print renders f to w followed by a newline. Empty output prints nothing.
func Print(w io.Writer, f Formatter, format Format) error {
	s, err := FormatOutput(f, format)
	if err != nil || s == "" {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
