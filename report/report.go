// Package report renders a selftest.Report in one of several formats.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dalemusser/emailcheck/selftest"
)

// Format names an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ErrUnknownFormat is returned for a format name Write does not support.
var ErrUnknownFormat = errors.New("report: unknown format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatXLSX}
}

// ParseFormat resolves a case-insensitive format name. "yml" and "excel" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool { return f == FormatXLSX }

// Write renders rep to w.
func Write(w io.Writer, f Format, rep selftest.Report) error {
	switch f {
	case FormatTable:
		return writeTable(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, rep)
	case FormatXLSX:
		return writeExcel(w, rep)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// FormatInput renders a candidate so that strings and non-strings stay
// distinguishable: "12345" is quoted, 12345 is not.
func FormatInput(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	}
	return fmt.Sprintf("%#v", v)
}

var columns = []string{"test", "name", "input", "expected", "result", "reason", "passed"}

func summaryLine(rep selftest.Report) string {
	s := fmt.Sprintf("%d cases: %d passed, %d failed",
		rep.Summary.Total, rep.Summary.Passed, rep.Summary.Failed)
	if !rep.Complete {
		s += " (incomplete)"
	}
	return s
}
