package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

// fakeForecaster devuelve una demanda fija por producto.
type fakeForecaster struct {
	demand map[string]float64
	err    error
}

func (f fakeForecaster) ForecastDemand(_ context.Context, _, productID string, _ int) (float64, error) {
	return f.demand[productID], f.err
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.NewStore()
	add := func(id, owner, name string, stock int) {
		st.AddProduct(entity.Product{ID: id, OwnerID: owner, Name: name, Price: decimal.NewFromInt(5), Stock: stock})
	}
	add("p-agotado", "owner-a", "Azúcar", 0)
	add("p-bajo", "owner-a", "Café", 4)
	add("p-medio", "owner-a", "Té", 9)
	add("p-holgado", "owner-a", "Sal", 50)
	add("p-ajeno", "owner-b", "Harina", 1)
	return st
}

func TestLowStock_FiltraOrdenaYSugiere(t *testing.T) {
	st := seed(t)
	uc := inventory.NewReplenishmentUseCase(st.Analytics(), fakeForecaster{demand: map[string]float64{
		"p-agotado": 2.4,
		"p-bajo":    15, // 5 por mes, stock 4 ⇒ CRITICAL
		"p-medio":   12, // 4 por mes, stock 9 ⇒ HIGH
	}}, 0, 0)

	got, err := uc.LowStock(context.Background(), "owner-a", dto.AnalyticsQuery{})
	require.NoError(t, err)

	require.Len(t, got, 3, "p-holgado supera el umbral y p-ajeno es de otro propietario")
	assert.Equal(t, "p-bajo", got[0].ProductID)
	assert.Equal(t, inventory.PriorityCritical, got[0].Priority)
	assert.Equal(t, 11, got[0].SuggestedOrder)

	assert.Equal(t, "p-agotado", got[1].ProductID)
	assert.Equal(t, inventory.PriorityCritical, got[1].Priority)
	assert.Equal(t, 3, got[1].SuggestedOrder, "ceil(2.4) - 0")

	assert.Equal(t, "p-medio", got[2].ProductID)
	assert.Equal(t, inventory.PriorityHigh, got[2].Priority)
	assert.Equal(t, 3, got[2].SuggestedOrder)
}

func TestLowStock_SinDemanda_PedidoCeroYPrioridadMedia(t *testing.T) {
	st := seed(t)
	threshold := 9
	uc := inventory.NewReplenishmentUseCase(st.Analytics(), fakeForecaster{}, 0, 0)

	got, err := uc.LowStock(context.Background(), "owner-a", dto.AnalyticsQuery{Threshold: &threshold})
	require.NoError(t, err)

	require.Len(t, got, 3)
	for _, item := range got {
		assert.Zero(t, item.SuggestedOrder)
	}
	assert.Equal(t, "p-agotado", got[0].ProductID, "sin stock siempre es CRITICAL")
	assert.Equal(t, inventory.PriorityMedium, got[1].Priority)
}

func TestLowStock_Errores(t *testing.T) {
	st := seed(t)
	ctx := context.Background()

	uc := inventory.NewReplenishmentUseCase(st.Analytics(), fakeForecaster{err: errors.New("boom")}, 0, 0)
	_, err := uc.LowStock(ctx, "owner-a", dto.AnalyticsQuery{})
	assert.Error(t, err)

	negative := -1
	_, err = uc.LowStock(ctx, "owner-a", dto.AnalyticsQuery{Threshold: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.LowStock(ctx, "", dto.AnalyticsQuery{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	empty, err := uc.LowStock(ctx, "owner-c", dto.AnalyticsQuery{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
