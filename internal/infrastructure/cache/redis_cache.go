// Package cache implementa la caché de analítica sobre Redis con versiones por propietario.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ventas-api/internal/application/ports"
)

var _ ports.AnalyticsCache = (*RedisCache)(nil)

const keyPrefix = "analytics"

// RedisCache guarda resultados JSON bajo claves que incluyen la versión del propietario.
// Invalidate incrementa la versión: las claves anteriores dejan de leerse y expiran por TTL.
// Si Redis falla, el resultado se calcula con el loader y el error solo se registra.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisCache construye la caché. ttl <= 0 usa 5 minutos.
func NewRedisCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func versionKey(ownerID string) string {
	return strings.Join([]string{keyPrefix, "version", ownerID}, ":")
}

// Version devuelve la versión vigente del propietario, inicializándola en 1.
func (c *RedisCache) Version(ctx context.Context, ownerID string) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX: si otra instancia la creó primero, se respeta su valor.
		if err := c.client.SetNX(ctx, versionKey(ownerID), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey(ownerID)).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey compone la clave versionada: analytics:<owner>:<key>:v<versión>.
func (c *RedisCache) BuildKey(ctx context.Context, ownerID, key string) (string, error) {
	ver, err := c.Version(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:v%d", keyPrefix, ownerID, key, ver), nil
}

// FetchJSON lee el valor cacheado en dest o lo calcula con loader y lo guarda.
func (c *RedisCache) FetchJSON(ctx context.Context, ownerID, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	fullKey, err := c.BuildKey(ctx, ownerID, key)
	if err != nil {
		c.log.Warn().Err(err).Str("owner", ownerID).Msg("cache: versión no disponible")
		return load(ctx, dest, loader, nil)
	}

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		return json.Unmarshal(payload, dest)
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", fullKey).Msg("cache: lectura fallida")
		return load(ctx, dest, loader, nil)
	}

	return load(ctx, dest, loader, func(raw []byte) {
		if err := c.client.Set(ctx, fullKey, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", fullKey).Msg("cache: escritura fallida")
		}
	})
}

// Invalidate descarta las entradas del propietario incrementando su versión.
func (c *RedisCache) Invalidate(ctx context.Context, ownerID string) error {
	if err := c.client.Incr(ctx, versionKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("cache: invalidar %s: %w", ownerID, err)
	}
	return nil
}

// load ejecuta loader, pasa el JSON a store (si no es nil) y lo decodifica en dest.
func load(ctx context.Context, dest any, loader func(context.Context) (any, error), store func([]byte)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if store != nil {
		store(raw)
	}
	return json.Unmarshal(raw, dest)
}
