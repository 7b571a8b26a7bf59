package entity

import "github.com/shopspring/decimal"

// CartLine una línea por producto; Quantity >= 1 siempre.
type CartLine struct {
	Product  Product
	Quantity int
}

// Subtotal precio * cantidad.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
