package dto

import "github.com/shopspring/decimal"

// AddToCartRequest entrada para agregar al carrito.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
}

// UpdateQuantityRequest entrada para fijar la cantidad de una línea.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse una línea del carrito.
type CartLineResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartResponse contenido del carrito con el total recalculado.
type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Count int                `json:"count"`
	Total decimal.Decimal    `json:"total"`
}
