package entity

import "github.com/shopspring/decimal"

// PageSize tamaño fijo de página del catálogo.
const PageSize = 10

// Product producto del catálogo. Inmutable una vez obtenido; la identidad es ID.
type Product struct {
	ID          int64
	Title       string
	Price       decimal.Decimal // no negativo
	Image       string          // URI
	Description string
	Category    string
}

// ProductPage estado de la lista paginada (snapshot inmutable para lectores).
// Cursor es el índice (base 0) de la última página incorporada; la página de catálogo es Cursor+1.
type ProductPage struct {
	Products    []Product
	Cursor      int
	Loading     bool
	Error       string
	HasMore     bool
	Initialized bool
}
