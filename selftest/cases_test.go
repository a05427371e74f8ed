package selftest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCases(t *testing.T) {
	cases := DefaultCases()
	require.Len(t, cases, 15)

	assert.Equal(t, "test@example.com", cases[0].Input)
	assert.Equal(t, 12345, cases[13].Input)
	assert.Equal(t, "user@domain.com.com", cases[14].Input)

	var valid int
	for _, c := range cases {
		assert.NotEmpty(t, c.Name)
		if c.Expected {
			valid++
		}
	}
	assert.Equal(t, 4, valid)
}

func TestLoadCases(t *testing.T) {
	src := `
- name: quoted number
  input: "12345"
  expected: false
- input: 12345
  expected: false
- name: null input
  input: null
  expected: false
- name: good
  input: " a@b.io "
  expected: true
`
	cases, err := LoadCases(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, cases, 4)

	assert.Equal(t, "12345", cases[0].Input)
	assert.Equal(t, 12345, cases[1].Input)
	assert.Equal(t, "case 2", cases[1].Name)
	assert.Nil(t, cases[2].Input)
	assert.True(t, cases[3].Expected)
}

func TestLoadCases_Errors(t *testing.T) {
	_, err := LoadCases(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoCases)

	_, err = LoadCases(strings.NewReader("[]"))
	assert.ErrorIs(t, err, ErrNoCases)

	_, err = LoadCases(strings.NewReader("- name: x\n  input: a@b.com\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "expected"`)

	_, err = LoadCases(strings.NewReader("name: not a list"))
	assert.Error(t, err)
}

func TestLoadCasesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- input: x@y.com\n  expected: true\n"), 0o644))

	cases, err := LoadCasesFile(path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "x@y.com", cases[0].Input)

	_, err = LoadCasesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
