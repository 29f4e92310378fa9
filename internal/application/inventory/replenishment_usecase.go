// Package inventory contiene las alertas de stock bajo y las sugerencias de reposición.
package inventory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

const (
	defaultThreshold = 10
	defaultHorizon   = 3
)

// Prioridades de reposición, de mayor a menor urgencia.
const (
	// PriorityCritical agotado o sin stock para un mes de demanda.
	PriorityCritical = "CRITICAL"
	// PriorityHigh el stock no cubre la demanda del horizonte.
	PriorityHigh = "HIGH"
	// PriorityMedium bajo el umbral pero con stock para el horizonte.
	PriorityMedium = "MEDIUM"
)

var priorityRank = map[string]int{PriorityCritical: 0, PriorityHigh: 1, PriorityMedium: 2}

// DemandForecaster estima las unidades que se venderán de un producto en los próximos
// horizon meses.
type DemandForecaster interface {
	ForecastDemand(ctx context.Context, ownerID, productID string, horizon int) (float64, error)
}

// ReplenishmentUseCase genera la lista de productos con stock bajo y su pedido sugerido.
type ReplenishmentUseCase struct {
	analyticsRepo    repository.AnalyticsRepository
	forecaster       DemandForecaster
	defaultThreshold int
	defaultHorizon   int
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
// threshold y horizon <= 0 usan 10 unidades y 3 meses.
func NewReplenishmentUseCase(
	analyticsRepo repository.AnalyticsRepository,
	forecaster DemandForecaster,
	threshold, horizon int,
) *ReplenishmentUseCase {
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	if horizon <= 0 {
		horizon = defaultHorizon
	}
	return &ReplenishmentUseCase{
		analyticsRepo:    analyticsRepo,
		forecaster:       forecaster,
		defaultThreshold: threshold,
		defaultHorizon:   horizon,
	}
}

// LowStock devuelve los productos con stock <= threshold, con la demanda pronosticada para
// el horizonte y el pedido sugerido max(0, ceil(demanda) - stock). Orden: más urgente primero.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, ownerID string, q dto.AnalyticsQuery) ([]dto.LowStockDTO, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	threshold := uc.defaultThreshold
	if q.Threshold != nil {
		if *q.Threshold < 0 {
			return nil, domain.NewValidationError("threshold", "no puede ser negativo")
		}
		threshold = *q.Threshold
	}
	horizon := q.Horizon
	if horizon <= 0 {
		horizon = uc.defaultHorizon
	}

	// 1. Productos bajo el umbral
	products, err := uc.analyticsRepo.ListProducts(ctx, repository.ProductFilter{OwnerID: ownerID, MaxStock: &threshold})
	if err != nil {
		return nil, fmt.Errorf("inventory: productos: %w", err)
	}
	if len(products) == 0 {
		return []dto.LowStockDTO{}, nil
	}

	// 2. Demanda esperada y pedido sugerido
	out := make([]dto.LowStockDTO, 0, len(products))
	for _, p := range products {
		demand, err := uc.forecaster.ForecastDemand(ctx, ownerID, p.ID, horizon)
		if err != nil {
			return nil, fmt.Errorf("inventory: demanda de %s: %w", p.ID, err)
		}
		suggested := int(math.Ceil(demand)) - p.Stock
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.LowStockDTO{
			ProductID:      p.ID,
			Name:           p.Name,
			Stock:          p.Stock,
			ForecastDemand: math.Round(demand*100) / 100,
			SuggestedOrder: suggested,
			Priority:       priority(p.Stock, demand, horizon),
		})
	}

	// 3. Ordenar: prioridad, luego mayor pedido sugerido, luego menor stock
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if priorityRank[a.Priority] != priorityRank[b.Priority] {
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		}
		if a.SuggestedOrder != b.SuggestedOrder {
			return a.SuggestedOrder > b.SuggestedOrder
		}
		return a.Stock < b.Stock
	})
	return out, nil
}

// priority: CRITICAL sin stock o con menos de un mes de cobertura, HIGH si no cubre el
// horizonte, MEDIUM en otro caso.
func priority(stock int, demand float64, horizon int) string {
	monthly := demand / float64(horizon)
	switch {
	case stock == 0 || float64(stock) < monthly:
		return PriorityCritical
	case float64(stock) < demand:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}
