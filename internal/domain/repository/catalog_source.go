package repository

import (
	"context"

	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// CatalogSource puerto del proveedor de páginas de productos (simulado o remoto).
// page empieza en 1. No deduplica ni valida: eso es responsabilidad del store de productos.
type CatalogSource interface {
	Fetch(ctx context.Context, page int) ([]entity.Product, error)
}
