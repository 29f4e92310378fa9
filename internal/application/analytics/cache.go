package analytics

import (
	"context"
	"encoding/json"
)

// assign ejecuta loader y copia su resultado en dest usando JSON, igual que lo haría
// una lectura de caché.
func assign(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
