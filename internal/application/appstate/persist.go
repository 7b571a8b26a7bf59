package appstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// persistVersion versión del documento persistido.
const persistVersion = 1

// Documento persistido bajo la clave raíz: solo carrito (con lista de deseos) y perfil.
// Los productos son de sesión y el estado de subida nunca se guarda.
type persistedDoc struct {
	Version int              `json:"version"`
	Cart    persistedCart    `json:"cart"`
	Profile persistedProfile `json:"profile"`
}

type persistedCart struct {
	Items    []persistedLine `json:"items"`
	Wishlist []int64         `json:"wishlist"`
}

type persistedLine struct {
	Product  persistedProduct `json:"product"`
	Quantity int              `json:"quantity"`
}

type persistedProduct struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
}

type persistedProfile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

func (s *State) encode() ([]byte, error) {
	lines := s.cart.Lines()
	doc := persistedDoc{
		Version: persistVersion,
		Cart: persistedCart{
			Items:    make([]persistedLine, 0, len(lines)),
			Wishlist: s.wishlist.IDs(),
		},
	}
	for _, l := range lines {
		p := l.Product
		doc.Cart.Items = append(doc.Cart.Items, persistedLine{
			Product: persistedProduct{
				ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image,
				Description: p.Description, Category: p.Category,
			},
			Quantity: l.Quantity,
		})
	}
	prof := s.profile.Snapshot().Profile
	doc.Profile = persistedProfile{Name: prof.Name, Email: prof.Email, Avatar: prof.Avatar}
	return json.Marshal(doc)
}

// persist guarda el sub-estado persistible. Los fallos se registran y se devuelven, nunca son fatales.
func (s *State) persist(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	raw, err := s.encode()
	if err != nil {
		return fmt.Errorf("serializar estado: %w", err)
	}
	if err := s.repo.Save(ctx, s.key, raw); err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("no se pudo persistir el estado")
		return fmt.Errorf("persistir estado: %w", err)
	}
	return nil
}

// Restore rehidrata carrito, lista de deseos y perfil desde la clave raíz. Sin documento no hace nada.
func (s *State) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	raw, err := s.repo.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("leer estado persistido: %w", err)
	}
	if raw == nil {
		s.log.Info().Str("key", s.key).Msg("sin estado persistido")
		return nil
	}
	var doc persistedDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decodificar estado persistido: %w", err)
	}
	if doc.Version != persistVersion {
		s.log.Warn().Int("version", doc.Version).Msg("versión de estado persistido desconocida, se ignora")
		return nil
	}

	lines := make([]entity.CartLine, 0, len(doc.Cart.Items))
	for _, it := range doc.Cart.Items {
		lines = append(lines, entity.CartLine{
			Product: entity.Product{
				ID: it.Product.ID, Title: it.Product.Title, Price: it.Product.Price, Image: it.Product.Image,
				Description: it.Product.Description, Category: it.Product.Category,
			},
			Quantity: it.Quantity,
		})
	}
	dropped := s.cart.Restore(lines)
	s.wishlist.Restore(doc.Cart.Wishlist)
	s.profile.Restore(entity.Profile{Name: doc.Profile.Name, Email: doc.Profile.Email, Avatar: doc.Profile.Avatar})

	s.log.Info().
		Int("cart_lines", len(lines)-dropped).
		Int("dropped", dropped).
		Int("wishlist", len(doc.Cart.Wishlist)).
		Msg("estado restaurado")
	s.broadcast()
	return nil
}
