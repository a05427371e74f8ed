// app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dalemusser/emailcheck/config"
	"github.com/dalemusser/emailcheck/logging"
	"github.com/dalemusser/emailcheck/metrics"
	"github.com/dalemusser/emailcheck/report"
	"github.com/dalemusser/emailcheck/selftest"
	"github.com/dalemusser/emailcheck/version"
)

// Process exit codes returned by Run.
const (
	ExitOK       = 0 // every case ran and passed
	ExitFailures = 1 // at least one case failed, or the run was interrupted
	ExitError    = 2 // configuration or I/O problem; no trustworthy report
)

// Run executes the self-test startup sequence:
//
//  1. Bootstrap logger
//  2. Load config (flags from args, env, config file)
//  3. Build final logger based on config
//  4. Assemble the case table
//  5. Wire shutdown signals to a context
//  6. Run the cases
//  7. Write the report
//  8. Record metrics (and the textfile, if configured)
//
// It returns a process exit code; callers should os.Exit(Run(...)).
func Run(ctx context.Context, args []string, stdout io.Writer) int {
	// 1) Bootstrap logger for early startup
	bootstrap := logging.BootstrapLogger()
	defer bootstrap.Sync()

	// 2) Load config
	cfg, err := config.Load(bootstrap, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		bootstrap.Error("config load failed", zap.Error(err))
		return ExitError
	}

	// 3) Build final logger
	logger, err := logging.BuildLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		bootstrap.Error("logger build failed", zap.Error(err))
		return ExitError
	}
	defer logger.Sync()
	logger.Info("emailcheck starting", version.Get().Fields()...)
	logger.Debug("config loaded", zap.String("config", cfg.Dump()))

	return execute(ctx, cfg, logger, stdout)
}

// execute holds steps 4 through 8 so tests can drive them with a prepared
// config and an observed logger.
func execute(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout io.Writer) int {
	format, err := cfg.ReportFormat()
	if err != nil {
		logger.Error("invalid report format", zap.Error(err))
		return ExitError
	}

	// 4) Case table
	cases, err := loadCases(cfg)
	if err != nil {
		logger.Error("loading cases failed", zap.Error(err))
		return ExitError
	}
	logger.Info("cases loaded", zap.Int("count", len(cases)), zap.String("cases_file", cfg.CasesFile))

	// 5) Shutdown signals → context
	ctx, cancel := WithShutdownSignals(ctx, logger)
	defer cancel()

	// 6) Run
	runner := selftest.NewRunner(
		selftest.WithParallelism(cfg.Parallelism),
		selftest.WithLogger(logger),
	)
	rep := runner.Run(ctx, cases)
	logger = logging.WithRun(logger, rep.RunID)

	// 7) Report
	if err := writeReport(cfg, format, rep, stdout); err != nil {
		logger.Error("writing report failed", zap.Error(err))
		return ExitError
	}

	// 8) Metrics
	rec := metrics.NewRecorder(logger)
	rec.Observe(rep)
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("writing metrics failed", zap.Error(err))
			return ExitError
		}
		logger.Info("metrics written", zap.String("file", cfg.MetricsFile))
	}

	if !rep.Complete {
		logger.Warn("self-test interrupted before all cases ran",
			zap.Int("ran", rep.Summary.Total), zap.Int("cases", len(cases)))
		return ExitFailures
	}
	if rep.Summary.Failed > 0 {
		return ExitFailures
	}
	return ExitOK
}

func loadCases(cfg *config.Config) ([]selftest.Case, error) {
	var cases []selftest.Case
	if !cfg.SkipDefaults {
		cases = selftest.DefaultCases()
	}
	if cfg.CasesFile != "" {
		extra, err := selftest.LoadCasesFile(cfg.CasesFile)
		if err != nil {
			return nil, err
		}
		cases = append(cases, extra...)
	}
	if len(cases) == 0 {
		return nil, selftest.ErrNoCases
	}
	return cases, nil
}

func writeReport(cfg *config.Config, format report.Format, rep selftest.Report, stdout io.Writer) error {
	if cfg.ToStdout() {
		return report.Write(stdout, format, rep)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := report.Write(f, format, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
