package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopfront/internal/domain"
	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// Store carrito con cantidades: una línea por id de producto, cantidad >= 1.
// Agregar un producto existente incrementa su cantidad.
type Store struct {
	mu    sync.Mutex
	lines []entity.CartLine
	index map[int64]int // id -> posición en lines
}

// NewStore construye un carrito vacío.
func NewStore() *Store {
	return &Store{index: make(map[int64]int)}
}

// Add crea la línea con cantidad 1 o incrementa la existente. Devuelve la cantidad resultante.
func (s *Store) Add(product entity.Product) (int, error) {
	if product.ID <= 0 || product.Price.IsNegative() {
		return 0, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[product.ID]; ok {
		s.lines[i].Quantity++
		return s.lines[i].Quantity, nil
	}
	s.index[product.ID] = len(s.lines)
	s.lines = append(s.lines, entity.CartLine{Product: product, Quantity: 1})
	return 1, nil
}

// Remove elimina la línea; no hace nada si no existe.
func (s *Store) Remove(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[productID]
	if !ok {
		return false
	}
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	s.reindex()
	return true
}

// UpdateQuantity fija la cantidad. Cantidades menores a 1 se rechazan; un id ausente no hace nada.
func (s *Store) UpdateQuantity(productID int64, quantity int) (bool, error) {
	if quantity < 1 {
		return false, domain.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[productID]
	if !ok {
		return false, nil
	}
	s.lines[i].Quantity = quantity
	return true, nil
}

// Clear vacía el carrito.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.index = make(map[int64]int)
	s.mu.Unlock()
}

// Lines copia de las líneas en orden de inserción.
func (s *Store) Lines() []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CartLine(nil), s.lines...)
}

// Total suma de precio * cantidad, recalculada en cada lectura.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, total := s.totalsLocked()
	return total
}

// Summary líneas, unidades y total leídos bajo el mismo lock.
func (s *Store) Summary() (lines []entity.CartLine, count int, total decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, total = s.totalsLocked()
	return append([]entity.CartLine(nil), s.lines...), count, total
}

func (s *Store) totalsLocked() (int, decimal.Decimal) {
	n, total := 0, decimal.Zero
	for _, l := range s.lines {
		n += l.Quantity
		total = total.Add(l.Subtotal())
	}
	return n, total
}

// Restore reemplaza el contenido con líneas rehidratadas; descarta cantidades < 1 e ids repetidos.
// Devuelve cuántas líneas se descartaron.
func (s *Store) Restore(lines []entity.CartLine) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make([]entity.CartLine, 0, len(lines))
	s.index = make(map[int64]int, len(lines))
	dropped := 0
	for _, l := range lines {
		if l.Quantity < 1 || l.Product.ID <= 0 {
			dropped++
			continue
		}
		if _, dup := s.index[l.Product.ID]; dup {
			dropped++
			continue
		}
		s.index[l.Product.ID] = len(s.lines)
		s.lines = append(s.lines, l)
	}
	return dropped
}

func (s *Store) reindex() {
	s.index = make(map[int64]int, len(s.lines))
	for i, l := range s.lines {
		s.index[l.Product.ID] = i
	}
}
