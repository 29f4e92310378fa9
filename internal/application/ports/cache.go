package ports

import "context"

// AnalyticsCache cachea resultados de analítica por propietario.
// Invalidate descarta todas las entradas del propietario (p. ej. tras una venta confirmada).
type AnalyticsCache interface {
	FetchJSON(ctx context.Context, ownerID, key string, dest any, loader func(context.Context) (any, error)) error
	Invalidate(ctx context.Context, ownerID string) error
}
