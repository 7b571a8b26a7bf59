package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopfront/internal/domain/entity"
	"github.com/jhoicas/shopfront/internal/domain/repository"
)

var _ repository.CatalogSource = (*SimulatedSource)(nil)

var categories = []string{"electrónica", "hogar", "ropa", "deportes", "juguetes"}

// SimulatedSource genera páginas de 10 productos con precio aleatorio tras una demora artificial.
// Dos llamadas a la misma página devuelven los mismos ids pero precios distintos.
type SimulatedSource struct {
	delay    time.Duration
	maxPages int
}

// NewSimulatedSource construye la fuente simulada. maxPages 0 = páginas infinitas.
func NewSimulatedSource(delay time.Duration, maxPages int) *SimulatedSource {
	return &SimulatedSource{delay: delay, maxPages: maxPages}
}

func (s *SimulatedSource) Fetch(ctx context.Context, page int) ([]entity.Product, error) {
	if page < 1 {
		return nil, fmt.Errorf("página %d inválida", page)
	}
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.maxPages > 0 && page > s.maxPages {
		return []entity.Product{}, nil
	}

	start := int64((page-1)*entity.PageSize + 1)
	out := make([]entity.Product, 0, entity.PageSize)
	for i := int64(0); i < entity.PageSize; i++ {
		id := start + i
		out = append(out, entity.Product{
			ID:       id,
			Title:    fmt.Sprintf("Product %d", id),
			Price:    decimal.New(rand.Int64N(10000), -2),
			Image:    fmt.Sprintf("https://picsum.photos/seed/%d/150/150", id),
			Category: categories[int(id-1)%len(categories)],
		})
	}
	return out, nil
}
