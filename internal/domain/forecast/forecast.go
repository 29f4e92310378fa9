// Package forecast proyecta valores futuros de una serie numérica ordenada.
// Todas las funciones son puras: mismo historial, horizonte y método producen el mismo resultado.
package forecast

import (
	"math"
	"strings"

	"github.com/jhoicas/ventas-api/internal/domain"
)

// Method es el método de proyección.
type Method string

const (
	MovingAverage Method = "moving-average"
	Linear        Method = "linear"
	Auto          Method = "auto"
)

// trendThreshold es la pendiente mínima (en valor absoluto) para que Auto use regresión lineal.
const trendThreshold = 0.01

// ParseMethod valida el método; vacío equivale a Auto.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case "":
		return Auto, nil
	case MovingAverage, Linear, Auto:
		return m, nil
	}
	return "", domain.NewValidationError("method", "método de pronóstico desconocido %q", raw)
}

// Forecast devuelve horizon valores futuros. Un historial vacío produce horizon ceros;
// un horizonte no positivo produce una serie vacía. Un método desconocido se trata como Auto.
func Forecast(history []float64, horizon int, method Method) []float64 {
	if horizon <= 0 {
		return []float64{}
	}
	if len(history) == 0 {
		return make([]float64, horizon)
	}
	switch method {
	case MovingAverage:
		return movingAverage(history, horizon)
	case Linear:
		return linear(history, horizon)
	default:
		if slope, _ := Regression(history); math.Abs(slope) > trendThreshold {
			return linear(history, horizon)
		}
		return movingAverage(history, horizon)
	}
}

// Resolve indica qué método concreto usaría Forecast para el historial dado.
func Resolve(history []float64, method Method) Method {
	if method == MovingAverage || method == Linear {
		return method
	}
	if slope, _ := Regression(history); math.Abs(slope) > trendThreshold {
		return Linear
	}
	return MovingAverage
}

// movingAverage promedia los últimos min(horizon, n) valores y repite el promedio.
func movingAverage(history []float64, horizon int) []float64 {
	window := horizon
	if window > len(history) {
		window = len(history)
	}
	var sum float64
	for _, v := range history[len(history)-window:] {
		sum += v
	}
	avg := sum / float64(window)
	out := make([]float64, horizon)
	for i := range out {
		out[i] = avg
	}
	return out
}

func linear(history []float64, horizon int) []float64 {
	slope, intercept := Regression(history)
	n := float64(len(history))
	out := make([]float64, horizon)
	for i := range out {
		out[i] = slope*(n+float64(i)) + intercept
	}
	return out
}

// Regression ajusta y = slope·x + intercept por mínimos cuadrados sobre x = 0..n-1.
// Con menos de dos puntos (o denominador nulo) la pendiente es 0 y el intercepto es la media.
func Regression(points []float64) (slope, intercept float64) {
	n := float64(len(points))
	if n == 0 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
