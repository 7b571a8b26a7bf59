package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// Filter devuelve los productos cuyo título contiene query sin distinguir mayúsculas (case folding Unicode).
// Query vacía devuelve la lista completa. Es pura: se recalcula en cada lectura.
func Filter(products []entity.Product, query string) []entity.Product {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold.String(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}
