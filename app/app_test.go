package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dalemusser/emailcheck/config"
	"github.com/dalemusser/emailcheck/report"
)

func writeCases(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_DefaultTable(t *testing.T) {
	chdir(t, t.TempDir())

	var out bytes.Buffer
	code := Run(context.Background(), nil, &out)

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out.String(), "15 cases: 15 passed, 0 failed")
}

func TestRun_Help(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Equal(t, ExitOK, Run(context.Background(), []string{"--help"}, &bytes.Buffer{}))
}

func TestRun_ConfigError(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Equal(t, ExitError, Run(context.Background(), []string{"--format", "xml"}, &bytes.Buffer{}))
}

func TestRun_JSONWithFailingCase(t *testing.T) {
	chdir(t, t.TempDir())
	cases := writeCases(t, "- name: wrong\n  input: user@domain\n  expected: true\n")

	var out bytes.Buffer
	code := Run(context.Background(), []string{"--format", "json", "--cases_file", cases, "--parallelism", "4"}, &out)
	assert.Equal(t, ExitFailures, code)

	var rep struct {
		Summary struct {
			Total, Passed, Failed int
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, 16, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Failed)
}

func TestRun_OutputFilesAndMetrics(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	reportPath := filepath.Join(dir, "report.xlsx")
	metricsPath := filepath.Join(dir, "emailcheck.prom")

	var out bytes.Buffer
	code := Run(context.Background(), []string{
		"--format", "xlsx",
		"--output", reportPath,
		"--metrics_file", metricsPath,
	}, &out)
	require.Equal(t, ExitOK, code)
	assert.Empty(t, out.String())

	f, err := excelize.OpenFile(reportPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.SheetResults)
	require.NoError(t, err)
	assert.Len(t, rows, 16)

	b, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "emailcheck_selftest_last_run_success 1")
}

func TestExecute_SkipDefaults(t *testing.T) {
	cases := writeCases(t, "- input: 12345\n  expected: false\n- input: a@b.io\n  expected: true\n")
	cfg := &config.Config{Format: "csv", Parallelism: 1, CasesFile: cases, SkipDefaults: true}

	var out bytes.Buffer
	assert.Equal(t, ExitOK, execute(context.Background(), cfg, zap.NewNop(), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 3)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		msg  string
	}{
		{"bad format", config.Config{Format: "xml", Parallelism: 1}, "invalid report format"},
		{"missing cases file", config.Config{Format: "table", Parallelism: 1,
			CasesFile: filepath.Join(t.TempDir(), "nope.yaml")}, "loading cases failed"},
		{"no cases", config.Config{Format: "table", Parallelism: 1, SkipDefaults: true}, "loading cases failed"},
		{"unwritable output", config.Config{Format: "table", Parallelism: 1,
			Output: filepath.Join(t.TempDir(), "missing", "r.txt")}, "writing report failed"},
		{"unwritable metrics", config.Config{Format: "table", Parallelism: 1,
			MetricsFile: filepath.Join(t.TempDir(), "missing", "m.prom")}, "writing metrics failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			cfg := tt.cfg
			code := execute(context.Background(), &cfg, zap.New(core), &bytes.Buffer{})
			assert.Equal(t, ExitError, code)
			assert.Equal(t, 1, logs.FilterMessage(tt.msg).Len())
		})
	}
}

func TestExecute_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	core, logs := observer.New(zapcore.InfoLevel)
	cfg := &config.Config{Format: "table", Parallelism: 1}

	var out bytes.Buffer
	code := execute(ctx, cfg, zap.New(core), &out)

	assert.Equal(t, ExitFailures, code)
	assert.Contains(t, out.String(), "(incomplete)")
	assert.Equal(t, 1, logs.FilterMessage("self-test interrupted before all cases ran").Len())
}

func TestWithShutdownSignals_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithShutdownSignals(parent, nil)
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
