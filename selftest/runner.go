// Package selftest runs the email validator against a table of
// (input, expected) pairs and collects a per-case report.
//
// A failing case is data, not an error: Run always returns a Report and the
// caller decides what a failure means.
package selftest

import (
	"context"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalemusser/emailcheck/validate"
)

// Result is the outcome of a single case.
type Result struct {
	Test     int             `json:"test" yaml:"test"` // 1-based position in the input table
	Name     string          `json:"name" yaml:"name"`
	Input    any             `json:"input" yaml:"input"`
	Expected bool            `json:"expected" yaml:"expected"`
	Actual   bool            `json:"result" yaml:"result"`
	Reason   validate.Reason `json:"reason" yaml:"reason"`
	Passed   bool            `json:"passed" yaml:"passed"`
}

// Summary aggregates a run.
type Summary struct {
	Total  int `json:"total" yaml:"total"`
	Passed int `json:"passed" yaml:"passed"`
	Failed int `json:"failed" yaml:"failed"`
}

// Report is the full outcome of Run.
type Report struct {
	RunID    string   `json:"run_id" yaml:"run_id"`
	Results  []Result `json:"results" yaml:"results"`
	Summary  Summary  `json:"summary" yaml:"summary"`
	Complete bool     `json:"complete" yaml:"complete"` // false if the run was cancelled early
}

// OK reports whether every case ran and passed.
func (r Report) OK() bool {
	return r.Complete && r.Summary.Failed == 0
}

// Failures returns the results that did not pass.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Runner executes cases against validate.Explain.
type Runner struct {
	parallelism int
	logger      *zap.Logger
	explain     func(any) validate.Reason
}

// Option configures a Runner.
type Option func(*Runner)

// WithParallelism sets how many cases may run at once. Values below 1 are
// treated as 1 (sequential).
func WithParallelism(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.parallelism = n
	}
}

// WithLogger sets the logger used for per-case and summary logs.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner returns a sequential runner that logs nowhere unless configured.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		parallelism: 1,
		logger:      zap.NewNop(),
		explain:     validate.Explain,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates cases in order. Results keep the input order regardless of
// parallelism. If ctx is cancelled, cases not yet started are left out of the
// report and Report.Complete is false.
func (r *Runner) Run(ctx context.Context, cases []Case) Report {
	results := make([]Result, len(cases))
	done := make([]bool, len(cases))

	if r.parallelism <= 1 {
		for i, c := range cases {
			if ctx.Err() != nil {
				break
			}
			results[i] = r.evaluate(i, c)
			done[i] = true
		}
	} else {
		pool := pond.NewPool(r.parallelism)
		for i, c := range cases {
			if ctx.Err() != nil {
				break
			}
			i, c := i, c
			pool.Submit(func() {
				if ctx.Err() != nil {
					return
				}
				results[i] = r.evaluate(i, c)
				done[i] = true
			})
		}
		pool.StopAndWait()
	}

	rep := Report{
		RunID:    uuid.NewString(),
		Results:  make([]Result, 0, len(cases)),
		Complete: true,
	}
	for i, res := range results {
		if !done[i] {
			rep.Complete = false
			continue
		}
		rep.Results = append(rep.Results, res)
		rep.Summary.Total++
		if res.Passed {
			rep.Summary.Passed++
		} else {
			rep.Summary.Failed++
		}
	}

	r.logger.Info("self-test finished",
		zap.String("run_id", rep.RunID),
		zap.Int("total", rep.Summary.Total),
		zap.Int("passed", rep.Summary.Passed),
		zap.Int("failed", rep.Summary.Failed),
		zap.Bool("complete", rep.Complete),
	)
	return rep
}

func (r *Runner) evaluate(i int, c Case) Result {
	reason := r.explain(c.Input)
	res := Result{
		Test:     i + 1,
		Name:     c.Name,
		Input:    c.Input,
		Expected: c.Expected,
		Actual:   reason.Valid(),
		Reason:   reason,
	}
	res.Passed = res.Actual == res.Expected

	fields := []zap.Field{
		zap.Int("test", res.Test),
		zap.String("name", res.Name),
		zap.Any("input", res.Input),
		zap.Bool("expected", res.Expected),
		zap.Bool("result", res.Actual),
		zap.Stringer("reason", res.Reason),
	}
	if res.Passed {
		r.logger.Debug("case passed", fields...)
	} else {
		r.logger.Warn("case failed", fields...)
	}
	return res
}
