package appstate

import (
	"context"

	"github.com/jhoicas/shopfront/internal/application/dto"
)

// CartSummaryRenderer genera el documento PDF con el resumen del carrito.
type CartSummaryRenderer interface {
	RenderCartSummary(ctx context.Context, cart dto.CartResponse, profile dto.ProfileResponse) ([]byte, error)
}
