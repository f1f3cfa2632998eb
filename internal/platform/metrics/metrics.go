package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives tracker events worth counting.
type Recorder interface {
	IncSessionsStarted()
	IncTicks()
	IncRecords(origin string)
	AddEarnings(origin string, cents int64)
}

type PrometheusRecorder struct {
	registry        *prometheus.Registry
	sessionsStarted prometheus.Counter
	ticks           prometheus.Counter
	records         *prometheus.CounterVec
	earnings        *prometheus.CounterVec
}

func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: reg,
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moneywatch_sessions_started_total",
			Help: "Watch sessions started",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moneywatch_accrual_ticks_total",
			Help: "Accrual clock firings applied to an active session",
		}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moneywatch_records_total",
			Help: "Watch records appended to the ledger",
		}, []string{"origin"}),
		earnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moneywatch_earnings_cents_total",
			Help: "Earnings accrued, in cents",
		}, []string{"origin"}),
	}
	reg.MustRegister(r.sessionsStarted, r.ticks, r.records, r.earnings)
	return r
}

func (r *PrometheusRecorder) IncSessionsStarted() { r.sessionsStarted.Inc() }

func (r *PrometheusRecorder) IncTicks() { r.ticks.Inc() }

func (r *PrometheusRecorder) IncRecords(origin string) {
	r.records.WithLabelValues(origin).Inc()
}

func (r *PrometheusRecorder) AddEarnings(origin string, cents int64) {
	if cents <= 0 {
		return
	}
	r.earnings.WithLabelValues(origin).Add(float64(cents))
}

func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

type Noop struct{}

func (Noop) IncSessionsStarted()        {}
func (Noop) IncTicks()                  {}
func (Noop) IncRecords(string)          {}
func (Noop) AddEarnings(string, int64) {}
