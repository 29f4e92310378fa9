package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/forecast"
)

func TestForecast_HistorialVacioDevuelveCeros(t *testing.T) {
	for _, m := range []forecast.Method{forecast.MovingAverage, forecast.Linear, forecast.Auto} {
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, forecast.Forecast(nil, 5, m), m)
	}
}

func TestForecast_MediaMovil(t *testing.T) {
	assert.Equal(t, []float64{25, 25}, forecast.Forecast([]float64{10, 20, 30}, 2, forecast.MovingAverage))
	// La ventana no supera el historial disponible.
	assert.Equal(t, []float64{20, 20, 20, 20}, forecast.Forecast([]float64{10, 20, 30}, 4, forecast.MovingAverage))
}

func TestForecast_RegresionLineal(t *testing.T) {
	out := forecast.Forecast([]float64{1, 2, 3, 4}, 2, forecast.Linear)
	require.Len(t, out, 2)
	assert.InDelta(t, 5, out[0], 1e-9)
	assert.InDelta(t, 6, out[1], 1e-9)

	slope, intercept := forecast.Regression([]float64{1, 2, 3, 4})
	assert.InDelta(t, 1, slope, 1e-9)
	assert.InDelta(t, 1, intercept, 1e-9)
}

func TestForecast_UnSoloPuntoNoDivideEntreCero(t *testing.T) {
	assert.Equal(t, []float64{7, 7}, forecast.Forecast([]float64{7}, 2, forecast.Linear))
}

func TestForecast_Determinista(t *testing.T) {
	h := []float64{3, 9, 4, 12, 8, 15}
	assert.Equal(t, forecast.Forecast(h, 4, forecast.Linear), forecast.Forecast(h, 4, forecast.Linear))
	assert.Equal(t, forecast.Forecast(h, 4, forecast.Auto), forecast.Forecast(h, 4, forecast.Auto))
}

func TestForecast_AutoEligeSegunPendiente(t *testing.T) {
	trend := []float64{1, 2, 3, 4}
	flat := []float64{10, 10, 10, 10}
	assert.Equal(t, forecast.Linear, forecast.Resolve(trend, forecast.Auto))
	assert.Equal(t, forecast.MovingAverage, forecast.Resolve(flat, forecast.Auto))
	assert.Equal(t, forecast.Forecast(trend, 2, forecast.Linear), forecast.Forecast(trend, 2, forecast.Auto))
	assert.Equal(t, []float64{10, 10}, forecast.Forecast(flat, 2, forecast.Auto))
}

func TestForecast_HorizonteNoPositivo(t *testing.T) {
	assert.Empty(t, forecast.Forecast([]float64{1, 2}, 0, forecast.Auto))
}

func TestParseMethod(t *testing.T) {
	m, err := forecast.ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, forecast.Auto, m)

	m, err = forecast.ParseMethod("Linear")
	require.NoError(t, err)
	assert.Equal(t, forecast.Linear, m)

	_, err = forecast.ParseMethod("arima")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
