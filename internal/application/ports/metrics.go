package ports

import "time"

// MetricsRecorder registra métricas de negocio del core.
type MetricsRecorder interface {
	SaleCreated(paymentMethod string)
	SaleRejected(reason string)
	ObserveReport(report string, d time.Duration)
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) SaleCreated(string)                  {}
func (NopMetrics) SaleRejected(string)                 {}
func (NopMetrics) ObserveReport(string, time.Duration) {}
