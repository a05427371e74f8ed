// selftest/cases.go
package selftest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoCases is returned when a case file holds no cases.
var ErrNoCases = errors.New("selftest: no cases")

// Case is one row of the self-test table. Input is deliberately untyped so
// the table can exercise non-string candidates.
type Case struct {
	Name     string `json:"name" yaml:"name"`
	Input    any    `json:"input" yaml:"input"`
	Expected bool   `json:"expected" yaml:"expected"`
}

// DefaultCases returns the seed table in its canonical order.
func DefaultCases() []Case {
	return []Case{
		{Name: "simple address", Input: "test@example.com", Expected: true},
		{Name: "second simple address", Input: "user@domain.com", Expected: true},
		{Name: "trims whitespace", Input: " user@domain.com ", Expected: true},
		{Name: "double dot in subdomain", Input: "user@sub..domain.com", Expected: false},
		{Name: "domain starts with dot", Input: "user@.com", Expected: false},
		{Name: "missing tld", Input: "user@domain", Expected: false},
		{Name: "multiple @", Input: "user@@domain.com", Expected: false},
		{Name: "double dot before tld", Input: "user@domain..com", Expected: false},
		{Name: "trailing dot in domain", Input: "user@domain.com.", Expected: false},
		{Name: "tld too short", Input: "user@domain.c", Expected: false},
		{Name: "tld too long", Input: "user@domain.toolongtlddddddddddddddddddddddd", Expected: false},
		{Name: "no @", Input: "invalid-email", Expected: false},
		{Name: "empty string", Input: "", Expected: false},
		{Name: "not a string", Input: 12345, Expected: false},
		{Name: "multi-label domain", Input: "user@domain.com.com", Expected: true},
	}
}

// caseFileEntry mirrors Case but makes "expected" mandatory.
type caseFileEntry struct {
	Name     string `yaml:"name"`
	Input    any    `yaml:"input"`
	Expected *bool  `yaml:"expected"`
}

// LoadCases decodes a YAML sequence of cases:
//
//	- name: numeric input
//	  input: 12345
//	  expected: false
//
// YAML scalars keep their natural types, so unquoted numbers, booleans and
// null become non-string candidates.
func LoadCases(r io.Reader) ([]Case, error) {
	var entries []caseFileEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCases
		}
		return nil, fmt.Errorf("selftest: decode cases: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoCases
	}

	cases := make([]Case, 0, len(entries))
	for i, e := range entries {
		if e.Expected == nil {
			return nil, fmt.Errorf("selftest: case %d (%q): missing \"expected\"", i+1, e.Name)
		}
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("case %d", i+1)
		}
		cases = append(cases, Case{Name: name, Input: e.Input, Expected: *e.Expected})
	}
	return cases, nil
}

// LoadCasesFile opens path and decodes it with LoadCases.
func LoadCasesFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("selftest: open cases file: %w", err)
	}
	defer f.Close()

	cases, err := LoadCases(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}
