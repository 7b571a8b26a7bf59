package wishlist

import (
	"sync"

	"github.com/jhoicas/shopfront/internal/domain"
)

// Store conjunto ordenado de ids de producto; cada id aparece como máximo una vez.
type Store struct {
	mu  sync.Mutex
	ids []int64
	set map[int64]struct{}
}

// NewStore construye una lista de deseos vacía.
func NewStore() *Store {
	return &Store{set: make(map[int64]struct{})}
}

// Toggle agrega el id si no está y lo quita si está. Devuelve la pertenencia resultante.
func (s *Store) Toggle(productID int64) (bool, error) {
	if productID <= 0 {
		return false, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.set[productID]; ok {
		s.removeLocked(productID)
		return false, nil
	}
	s.set[productID] = struct{}{}
	s.ids = append(s.ids, productID)
	return true, nil
}

// Remove quita el id; no hace nada si no está.
func (s *Store) Remove(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.set[productID]; !ok {
		return false
	}
	s.removeLocked(productID)
	return true
}

// IDs copia en orden de inserción.
func (s *Store) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ids...)
}

// Restore reemplaza el contenido; ignora ids no positivos y repetidos.
func (s *Store) Restore(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make([]int64, 0, len(ids))
	s.set = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, dup := s.set[id]; dup {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *Store) removeLocked(productID int64) {
	delete(s.set, productID)
	for i, id := range s.ids {
		if id == productID {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return
		}
	}
}
