// metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dalemusser/emailcheck/selftest"
	"github.com/dalemusser/emailcheck/validate"
	"github.com/dalemusser/emailcheck/version"
)

const namespace = "emailcheck"

// Recorder holds self-test metrics on a private registry. The registry is
// written to disk in the node-exporter textfile format; nothing is served.
type Recorder struct {
	registry    *prometheus.Registry
	cases       *prometheus.CounterVec
	verdicts    *prometheus.CounterVec
	lastSuccess prometheus.Gauge
	lastRun     prometheus.Gauge
}

// NewRecorder builds a Recorder and registers its collectors.
//
// Registration failures other than AlreadyRegisteredError are fatal: they
// mean two collectors share a name, which is a programming error.
func NewRecorder(logger *zap.Logger) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selftest",
			Name:      "cases_total",
			Help:      "Self-test cases evaluated, by outcome.",
		}, []string{"outcome"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Validator verdicts, by deciding check.",
		}, []string{"verdict"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "selftest",
			Name:      "last_run_success",
			Help:      "1 if the last self-test run completed with no failures, else 0.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "selftest",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last self-test run.",
		}),
	}

	r.mustRegister(logger, "case counter", r.cases)
	r.mustRegister(logger, "verdict counter", r.verdicts)
	r.mustRegister(logger, "success gauge", r.lastSuccess)
	r.mustRegister(logger, "timestamp gauge", r.lastRun)

	info := version.Get()
	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build information of the emailcheck binary; always 1.",
	}, []string{"version", "commit", "go_version"})
	r.mustRegister(logger, "build info", buildInfo)
	buildInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)

	// Export zero-valued series so every label shows up in the textfile.
	r.cases.WithLabelValues("passed")
	r.cases.WithLabelValues("failed")
	for _, reason := range validate.Reasons() {
		r.verdicts.WithLabelValues(reason.String())
	}
	return r
}

func (r *Recorder) mustRegister(logger *zap.Logger, name string, c prometheus.Collector) {
	if err := r.registry.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		if logger != nil {
			logger.Fatal("failed to register "+name, zap.Error(err))
		}
		panic("metrics: failed to register " + name + ": " + err.Error())
	}
}

// Observe records one self-test report.
func (r *Recorder) Observe(rep selftest.Report) {
	for _, res := range rep.Results {
		outcome := "passed"
		if !res.Passed {
			outcome = "failed"
		}
		r.cases.WithLabelValues(outcome).Inc()
		r.verdicts.WithLabelValues(res.Reason.String()).Inc()
	}

	if rep.OK() {
		r.lastSuccess.Set(1)
	} else {
		r.lastSuccess.Set(0)
	}
	r.lastRun.SetToCurrentTime()
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes the registry to path in the text
// exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write textfile %s: %w", path, err)
	}
	return nil
}
