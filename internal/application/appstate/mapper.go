package appstate

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopfront/internal/application/catalog"
	"github.com/jhoicas/shopfront/internal/application/dto"
	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// view lee carrito y favoritos una sola vez; todas las respuestas de un snapshot salen de la misma lectura.
type view struct {
	lines    []entity.CartLine
	count    int
	total    decimal.Decimal
	quantity map[int64]int
	wishIDs  []int64
	wished   map[int64]struct{}
}

func (s *State) readView() view {
	lines, count, total := s.cart.Summary()
	v := view{
		lines:    lines,
		count:    count,
		total:    total,
		quantity: make(map[int64]int, len(lines)),
		wishIDs:  s.wishlist.IDs(),
	}
	for _, l := range lines {
		v.quantity[l.Product.ID] = l.Quantity
	}
	v.wished = make(map[int64]struct{}, len(v.wishIDs))
	for _, id := range v.wishIDs {
		v.wished[id] = struct{}{}
	}
	return v
}

func (v view) product(p entity.Product) dto.ProductResponse {
	_, wished := v.wished[p.ID]
	return dto.ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Category:    p.Category,
		InCart:      v.quantity[p.ID],
		InWishlist:  wished,
	}
}

func (v view) cart() dto.CartResponse {
	out := dto.CartResponse{
		Items: make([]dto.CartLineResponse, 0, len(v.lines)),
		Count: v.count,
		Total: v.total,
	}
	for _, l := range v.lines {
		out.Items = append(out.Items, dto.CartLineResponse{
			Product:  v.product(l.Product),
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
		})
	}
	return out
}

// wishlistOf resuelve cada id contra el catálogo cargado o, si no está, contra el carrito.
func (s *State) wishlistOf(v view) dto.WishlistResponse {
	inCart := make(map[int64]entity.Product, len(v.lines))
	for _, l := range v.lines {
		inCart[l.Product.ID] = l.Product
	}
	out := dto.WishlistResponse{Items: make([]dto.WishlistEntryResponse, 0, len(v.wishIDs))}
	for _, id := range v.wishIDs {
		entry := dto.WishlistEntryResponse{ProductID: id}
		if p, ok := s.catalog.Lookup(id); ok {
			pr := v.product(p)
			entry.Product = &pr
		} else if p, ok := inCart[id]; ok {
			pr := v.product(p)
			entry.Product = &pr
		}
		out.Items = append(out.Items, entry)
	}
	return out
}

func (s *State) products(v view, query string) dto.ProductPageResponse {
	page := s.catalog.Snapshot()
	visible := catalog.Filter(page.Products, query)
	out := dto.ProductPageResponse{
		Items:   make([]dto.ProductResponse, 0, len(visible)),
		Query:   query,
		Cursor:  page.Cursor,
		Loading: page.Loading,
		HasMore: page.HasMore,
		Loaded:  len(page.Products),
	}
	if page.Error != "" {
		msg := page.Error
		out.Error = &msg
	}
	for _, p := range visible {
		out.Items = append(out.Items, v.product(p))
	}
	return out
}

func (s *State) toCartResponse() dto.CartResponse {
	return s.readView().cart()
}

func (s *State) toWishlistResponse() dto.WishlistResponse {
	return s.wishlistOf(s.readView())
}

func toProfileResponse(st entity.ProfileState) dto.ProfileResponse {
	out := dto.ProfileResponse{
		Name:  st.Profile.Name,
		Email: st.Profile.Email,
		Upload: dto.UploadResponse{
			ID:            st.Upload.ID,
			Source:        st.Upload.Source,
			PendingAvatar: st.Upload.PendingAvatar,
			Uploading:     st.Upload.Uploading,
			Progress:      st.Upload.Progress,
		},
	}
	if st.Profile.Avatar != "" {
		avatar := st.Profile.Avatar
		out.Avatar = &avatar
	}
	if len(st.FieldErrors) > 0 {
		out.FieldErrors = st.FieldErrors
	}
	return out
}

func toUploadResponse(up entity.Upload) dto.UploadResponse {
	return dto.UploadResponse{
		ID:            up.ID,
		Source:        up.Source,
		PendingAvatar: up.PendingAvatar,
		Uploading:     up.Uploading,
		Progress:      up.Progress,
	}
}

func toNoticeResponses(notices []entity.Notice) []dto.NoticeResponse {
	out := make([]dto.NoticeResponse, 0, len(notices))
	for _, n := range notices {
		out = append(out, dto.NoticeResponse{ID: n.ID, Kind: n.Kind, Message: n.Message})
	}
	return out
}
