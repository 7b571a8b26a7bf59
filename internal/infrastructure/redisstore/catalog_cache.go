package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/shopfront/internal/domain/entity"
	"github.com/jhoicas/shopfront/internal/domain/repository"
)

var _ repository.CatalogSource = (*CachedCatalog)(nil)

// CacheStats contadores del cache de páginas.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Errors uint64 `json:"errors"`
}

// CachedCatalog decora un CatalogSource con cache-aside en Redis: cada página se guarda bajo
// <prefix>page:<n> con TTL. Si Redis falla se consulta la fuente directamente.
type CachedCatalog struct {
	next   repository.CatalogSource
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger

	hits, misses, errs atomic.Uint64
}

func NewCachedCatalog(next repository.CatalogSource, client *redis.Client, prefix string, ttl time.Duration, log zerolog.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCatalog{next: next, client: client, prefix: prefix, ttl: ttl, log: log}
}

func (c *CachedCatalog) key(page int) string {
	return c.prefix + "page:" + strconv.Itoa(page)
}

// Fetch devuelve la página desde Redis o, en miss, desde la fuente y la guarda.
// Las páginas vacías no se cachean.
func (c *CachedCatalog) Fetch(ctx context.Context, page int) ([]entity.Product, error) {
	key := c.key(page)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var products []entity.Product
		if jerr := json.Unmarshal(data, &products); jerr == nil {
			c.hits.Add(1)
			return products, nil
		}
		c.errs.Add(1)
		c.log.Warn().Str("key", key).Msg("página cacheada ilegible, se descarta")
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
	default:
		c.errs.Add(1)
		c.log.Warn().Err(err).Str("key", key).Msg("redis no disponible, consultando catálogo")
	}

	products, err := c.next.Fetch(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return products, nil
	}
	if raw, err := json.Marshal(products); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.errs.Add(1)
			c.log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear la página")
		}
	}
	return products, nil
}

// Invalidate borra las páginas cacheadas (usado en refresh forzado).
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"page:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Stats copia de los contadores.
func (c *CachedCatalog) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Errors: c.errs.Load()}
}
