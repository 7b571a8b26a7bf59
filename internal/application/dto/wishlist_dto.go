package dto

// ToggleWishlistRequest entrada para alternar un producto en la lista de deseos.
type ToggleWishlistRequest struct {
	ProductID int64 `json:"product_id"`
}

// ToggleWishlistResponse pertenencia resultante.
type ToggleWishlistResponse struct {
	ProductID  int64 `json:"product_id"`
	InWishlist bool  `json:"in_wishlist"`
}

// WishlistEntryResponse id guardado y, si está cargado, el producto.
type WishlistEntryResponse struct {
	ProductID int64            `json:"product_id"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// WishlistResponse lista de deseos.
type WishlistResponse struct {
	Items []WishlistEntryResponse `json:"items"`
}
