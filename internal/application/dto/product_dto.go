package dto

import "github.com/shopspring/decimal"

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	InCart      int             `json:"in_cart"`
	InWishlist  bool            `json:"in_wishlist"`
}

// ProductPageResponse estado de la lista paginada, ya filtrada por la búsqueda.
type ProductPageResponse struct {
	Items   []ProductResponse `json:"items"`
	Query   string            `json:"query,omitempty"`
	Cursor  int               `json:"cursor"`
	Loading bool              `json:"loading"`
	Error   *string           `json:"error"`
	HasMore bool              `json:"has_more"`
	Loaded  int               `json:"loaded"`
}
