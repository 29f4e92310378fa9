// Package metrics expone las métricas de negocio del core en formato Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/ventas-api/internal/application/ports"
)

var _ ports.MetricsRecorder = (*Recorder)(nil)

// Recorder registra ventas y duración de reportes sobre un registry propio.
type Recorder struct {
	registry *prometheus.Registry
	created  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	reports  *prometheus.HistogramVec
}

// NewRecorder crea el registry con las métricas del proceso y de Go incluidas.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ventas",
			Name:      "sales_created_total",
			Help:      "Ventas confirmadas por método de pago.",
		}, []string{"payment_method"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ventas",
			Name:      "sales_rejected_total",
			Help:      "Ventas rechazadas por motivo.",
		}, []string{"reason"}),
		reports: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ventas",
			Name:      "report_duration_seconds",
			Help:      "Duración del cálculo de reportes analíticos y financieros.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"report"}),
	}
	reg.MustRegister(
		r.created,
		r.rejected,
		r.reports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// SaleCreated cuenta una venta confirmada.
func (r *Recorder) SaleCreated(paymentMethod string) {
	r.created.WithLabelValues(paymentMethod).Inc()
}

// SaleRejected cuenta una venta rechazada por reason.
func (r *Recorder) SaleRejected(reason string) {
	r.rejected.WithLabelValues(reason).Inc()
}

// ObserveReport registra la duración del cálculo de un reporte.
func (r *Recorder) ObserveReport(report string, d time.Duration) {
	r.reports.WithLabelValues(report).Observe(d.Seconds())
}

// Registry devuelve el registry para montar colectores adicionales.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler sirve /metrics desde el registry propio.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
