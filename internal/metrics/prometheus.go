package metrics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/prothcalc/internal/proth"
	"github.com/agbru/prothcalc/internal/ssmul"
)

// Metrics holds the Prometheus collectors of one run. Each instance owns
// its registry so tests and repeated runs never collide on registration.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	testsTotal     *prometheus.CounterVec
	testDuration   *prometheus.HistogramVec
	activeTests    prometheus.Gauge
	levels         prometheus.Gauge
	workspaceLimbs prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with the Go
// runtime collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		testsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prothcalc_tests_total",
			Help: "Completed primality tests by method and verdict.",
		}, []string{"method", "verdict"}),
		testDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prothcalc_test_duration_seconds",
			Help:    "Wall time of the modular exponentiation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"method"}),
		activeTests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prothcalc_active_tests",
			Help: "Testers currently running.",
		}),
		levels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prothcalc_multiplier_levels",
			Help: "Transform levels in the last multiplier chain built.",
		}),
		workspaceLimbs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prothcalc_workspace_limbs",
			Help: "Limbs reserved by the last multiplier chain built.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.testsTotal,
		m.testDuration,
		m.activeTests,
		m.levels,
		m.workspaceLimbs,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

func (m *Metrics) IncrementActiveTests() { m.activeTests.Inc() }

func (m *Metrics) DecrementActiveTests() { m.activeTests.Dec() }

// RecordTest counts a finished test. Failed tests carry the "failed"
// verdict and no duration sample.
func (m *Metrics) RecordTest(method string, res proth.Result, err error) {
	if err != nil {
		m.testsTotal.WithLabelValues(method, "failed").Inc()
		return
	}
	verdict := "composite"
	if res.Prime {
		verdict = "prime"
	}
	m.testsTotal.WithLabelValues(method, verdict).Inc()
	m.testDuration.WithLabelValues(method).Observe(res.Duration.Seconds())
}

// ObserveChain records the shape of a multiplier chain. It matches the
// signature expected by proth.WithChainObserver.
func (m *Metrics) ObserveChain(c *ssmul.Chain) {
	m.levels.Set(float64(c.Levels()))
	m.workspaceLimbs.Set(float64(c.WorkspaceLimbs()))
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// WriteTextFile writes every gathered family to path in the text format,
// as read by the node exporter's textfile collector.
func (m *Metrics) WriteTextFile(path string) (err error) {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// instrumented wraps a tester with the active gauge and the result
// counters.
type instrumented struct {
	proth.Tester
	m *Metrics
}

// Instrument returns t reporting into m. The name is preserved.
func (m *Metrics) Instrument(t proth.Tester) proth.Tester {
	return &instrumented{Tester: t, m: m}
}

func (i *instrumented) Test(ctx context.Context, n proth.Number, progress chan<- proth.ProgressUpdate, idx int) (proth.Result, error) {
	i.m.IncrementActiveTests()
	defer i.m.DecrementActiveTests()

	start := time.Now()
	res, err := i.Tester.Test(ctx, n, progress, idx)
	if err == nil && res.Duration == 0 {
		res.Duration = time.Since(start)
	}
	i.m.RecordTest(i.Tester.Name(), res, err)
	return res, err
}
