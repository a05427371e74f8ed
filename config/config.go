// config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dalemusser/emailcheck/logging"
	"github.com/dalemusser/emailcheck/report"
)

// EnvPrefix is prepended to every environment variable, e.g. EMAILCHECK_FORMAT.
const EnvPrefix = "EMAILCHECK"

// Config controls the self-test harness. The validator itself has no
// tunables; nothing here changes what counts as a valid address.
type Config struct {
	// runtime
	Env      string `mapstructure:"env"`       // "dev" | "prod"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error …

	// output
	Format string `mapstructure:"format"` // table | json | yaml | csv | xlsx
	Output string `mapstructure:"output"` // file path; "" or "-" means stdout

	// cases
	CasesFile    string `mapstructure:"cases_file"`    // extra YAML cases appended to the seed table
	SkipDefaults bool   `mapstructure:"skip_defaults"` // run only cases_file
	Parallelism  int    `mapstructure:"parallelism"`

	// metrics
	MetricsFile string `mapstructure:"metrics_file"` // Prometheus textfile path; "" disables
}

// ReportFormat returns the parsed output format. Load has already
// validated it, so the error is only possible on hand-built configs.
func (c Config) ReportFormat() (report.Format, error) {
	return report.ParseFormat(c.Format)
}

// ToStdout reports whether the report goes to standard output.
func (c Config) ToStdout() bool {
	o := strings.TrimSpace(c.Output)
	return o == "" || o == "-"
}

// Dump returns the config as indented JSON for debug logging.
func (c Config) Dump() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

// Load merges defaults → config.* file(s) → env vars → explicit flags.
// Final precedence (highest wins): flags(explicit) > env > config > defaults.
//
// args excludes the program name. A --help request returns pflag.ErrHelp.
func Load(logger *zap.Logger, args []string) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 0) Optionally load .env (real env still wins over .env)
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env file")
	}

	// 1) Flags (only *explicitly set* flags override)
	fs := pflag.NewFlagSet("emailcheck", pflag.ContinueOnError)
	fs.String("config", "", "Explicit config file (yaml|yml|json|toml); default looks for ./config.*")
	fs.String("env", "dev", `Runtime environment "dev"|"prod"`)
	fs.String("log_level", "info", "Log level")
	fs.String("format", string(report.FormatTable), "Report format: table, json, yaml, csv, xlsx")
	fs.String("output", "", `Report destination file ("" or "-" for stdout)`)
	fs.String("cases_file", "", "YAML file with additional cases")
	fs.Bool("skip_defaults", false, "Run only the cases from cases_file")
	fs.Int("parallelism", 1, "Number of cases evaluated concurrently")
	fs.String("metrics_file", "", "Write Prometheus textfile metrics to this path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// 2) Viper + env
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range allKeys() {
		_ = v.BindEnv(k)
	}

	// 3) Config files
	explicit, _ := fs.GetString("config")
	if err := mergeConfigFiles(logger, v, explicit); err != nil {
		return nil, err
	}

	// 4) Defaults (lowest precedence)
	setDefaults(v)

	// 5) Explicit flags (highest precedence)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed && f.Name != "config" {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	// 6) Build struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 7) Validate and normalize
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigFiles merges an explicit file (which must exist) or, when none
// is given, any ./config.{yaml,yml,json,toml} present.
func mergeConfigFiles(logger *zap.Logger, v *viper.Viper, explicit string) error {
	if explicit != "" {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(explicit)), ".")
		b, err := os.ReadFile(explicit)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			return fmt.Errorf("decode config file %s: %w", explicit, err)
		}
		logger.Info("loaded config file", zap.String("file", explicit))
		return nil
	}

	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := "config." + ext
		if _, err := os.Stat(file); err != nil {
			continue
		}
		b, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("cannot read config file", zap.String("file", file), zap.Error(err))
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			continue
		}
		logger.Info("loaded config file", zap.String("file", file))
	}
	return nil
}

func allKeys() []string {
	return []string{
		"env", "log_level",
		"format", "output",
		"cases_file", "skip_defaults", "parallelism",
		"metrics_file",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")

	v.SetDefault("format", string(report.FormatTable))
	v.SetDefault("output", "")

	v.SetDefault("cases_file", "")
	v.SetDefault("skip_defaults", false)
	v.SetDefault("parallelism", 1)

	v.SetDefault("metrics_file", "")
}

func validateConfig(cfg *Config) error {
	var missing []string
	var invalid []string

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		invalid = append(invalid, `env must be "dev" or "prod"`)
	}
	if !logging.IsValidLogLevel(cfg.LogLevel) {
		invalid = append(invalid, "log_level must be one of "+strings.Join(logging.ValidLogLevels, ", "))
	}

	f, err := report.ParseFormat(cfg.Format)
	if err != nil {
		invalid = append(invalid, fmt.Sprintf("format %q is not one of table, json, yaml, csv, xlsx", cfg.Format))
	} else {
		cfg.Format = string(f)
		if f.Binary() && cfg.ToStdout() {
			missing = append(missing, "EMAILCHECK_OUTPUT (or --output) file path for format=xlsx")
		}
	}

	if cfg.SkipDefaults && strings.TrimSpace(cfg.CasesFile) == "" {
		missing = append(missing, "EMAILCHECK_CASES_FILE (or --cases_file) when skip_defaults=true")
	}
	if cfg.Parallelism < 1 {
		invalid = append(invalid, "parallelism must be >= 1")
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return fmt.Errorf("configuration errors: %s", strings.Join(parts, " | "))
}
