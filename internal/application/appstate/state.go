package appstate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/shopfront/internal/application/cart"
	"github.com/jhoicas/shopfront/internal/application/catalog"
	"github.com/jhoicas/shopfront/internal/application/dto"
	"github.com/jhoicas/shopfront/internal/application/notice"
	"github.com/jhoicas/shopfront/internal/application/profile"
	"github.com/jhoicas/shopfront/internal/application/wishlist"
	"github.com/jhoicas/shopfront/internal/domain"
	"github.com/jhoicas/shopfront/internal/domain/entity"
	"github.com/jhoicas/shopfront/internal/domain/repository"
)

// DefaultPersistKey clave raíz del documento persistido.
const DefaultPersistKey = "persist:root"

// ErrPDFUnavailable no hay generador de PDF configurado.
var ErrPDFUnavailable = errors.New("generador de PDF no configurado")

// Deps dependencias del estado de la aplicación. Repo y PDF son opcionales.
type Deps struct {
	Catalog  *catalog.Store
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Profile  *profile.Store
	Notices  *notice.Center
	Repo     repository.StateRepository
	Key      string
	PDF      CartSummaryRenderer
	Logger   zerolog.Logger
}

// State compone los stores y expone los intents de la aplicación. Cada mutación de carrito,
// lista de deseos o perfil se persiste y se difunde a los suscriptores.
type State struct {
	catalog  *catalog.Store
	cart     *cart.Store
	wishlist *wishlist.Store
	profile  *profile.Store
	notices  *notice.Center
	repo     repository.StateRepository
	key      string
	pdf      CartSummaryRenderer
	log      zerolog.Logger

	persistMu sync.Mutex

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	subs    map[int]chan dto.StateResponse
	nextSub int
}

// New construye el estado y engancha las notificaciones de cada store.
func New(d Deps) *State {
	if d.Cart == nil {
		d.Cart = cart.NewStore()
	}
	if d.Wishlist == nil {
		d.Wishlist = wishlist.NewStore()
	}
	if d.Notices == nil {
		d.Notices = notice.NewCenter(0)
	}
	if d.Key == "" {
		d.Key = DefaultPersistKey
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &State{
		catalog:  d.Catalog,
		cart:     d.Cart,
		wishlist: d.Wishlist,
		profile:  d.Profile,
		notices:  d.Notices,
		repo:     d.Repo,
		key:      d.Key,
		pdf:      d.PDF,
		log:      d.Logger,
		baseCtx:  ctx,
		cancel:   cancel,
		subs:     make(map[int]chan dto.StateResponse),
	}

	s.catalog.OnChange(s.broadcast)
	s.notices.OnChange(s.broadcast)
	s.profile.OnChange(s.broadcast)
	s.profile.OnComplete(func(up entity.Upload) {
		if err := s.persist(s.baseCtx); err == nil {
			s.notices.Show(entity.NoticeInfo, "Foto de perfil actualizada")
		}
	})
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

// Refresh recarga la primera página.
func (s *State) Refresh(ctx context.Context) error {
	return s.fetchNotice(s.catalog.Refresh(ctx))
}

// LoadNextPage pide la página siguiente (o la primera si aún no se cargó ninguna).
func (s *State) LoadNextPage(ctx context.Context) error {
	return s.fetchNotice(s.catalog.AdvancePage(ctx))
}

// Retry repite la última carga fallida.
func (s *State) Retry(ctx context.Context) error {
	return s.fetchNotice(s.catalog.Retry(ctx))
}

// ClearError descarta el error visible de productos.
func (s *State) ClearError() {
	s.catalog.ClearError()
}

func (s *State) fetchNotice(err error) error {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		s.notices.Show(entity.NoticeError, "No se pudieron cargar los productos")
	}
	return err
}

// Products vista de productos filtrada por título, anotada con carrito y favoritos.
func (s *State) Products(query string) dto.ProductPageResponse {
	return s.products(s.readView(), query)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

// Cart vista actual del carrito.
func (s *State) Cart() dto.CartResponse {
	return s.toCartResponse()
}

// AddToCart agrega una unidad del producto cargado con ese id.
func (s *State) AddToCart(ctx context.Context, productID int64) (dto.CartResponse, error) {
	p, ok := s.catalog.Lookup(productID)
	if !ok {
		return dto.CartResponse{}, fmt.Errorf("producto %d: %w", productID, domain.ErrNotFound)
	}
	qty, err := s.cart.Add(p)
	if err != nil {
		return dto.CartResponse{}, err
	}
	s.log.Debug().Int64("product_id", productID).Int("quantity", qty).Str("total", s.cart.Total().StringFixed(2)).Msg("producto agregado al carrito")
	s.notices.Show(entity.NoticeInfo, "Agregado al carrito")
	s.changed(ctx)
	return s.toCartResponse(), nil
}

// RemoveFromCart quita la línea completa; si no existe no hace nada.
func (s *State) RemoveFromCart(ctx context.Context, productID int64) dto.CartResponse {
	if s.cart.Remove(productID) {
		s.changed(ctx)
	}
	return s.toCartResponse()
}

// UpdateQuantity fija la cantidad de una línea (mínimo 1).
func (s *State) UpdateQuantity(ctx context.Context, productID int64, quantity int) (dto.CartResponse, error) {
	updated, err := s.cart.UpdateQuantity(productID, quantity)
	if err != nil {
		return dto.CartResponse{}, err
	}
	if updated {
		s.changed(ctx)
	}
	return s.toCartResponse(), nil
}

// ClearCart vacía el carrito.
func (s *State) ClearCart(ctx context.Context) dto.CartResponse {
	s.cart.Clear()
	s.changed(ctx)
	return s.toCartResponse()
}

// CartSummaryPDF genera el resumen del carrito en PDF.
func (s *State) CartSummaryPDF(ctx context.Context) ([]byte, error) {
	if s.pdf == nil {
		return nil, ErrPDFUnavailable
	}
	return s.pdf.RenderCartSummary(ctx, s.toCartResponse(), s.Profile())
}

// ──────────────────────────────────────────────────────────────────────────────
// Lista de deseos
// ──────────────────────────────────────────────────────────────────────────────

// Wishlist vista de la lista de deseos.
func (s *State) Wishlist() dto.WishlistResponse {
	return s.toWishlistResponse()
}

// ToggleWishlist agrega o quita el id; devuelve si quedó en la lista.
func (s *State) ToggleWishlist(ctx context.Context, productID int64) (bool, error) {
	in, err := s.wishlist.Toggle(productID)
	if err != nil {
		return false, err
	}
	if in {
		s.notices.Show(entity.NoticeInfo, "Agregado a favoritos")
	} else {
		s.notices.Show(entity.NoticeInfo, "Quitado de favoritos")
	}
	s.changed(ctx)
	return in, nil
}

// RemoveFromWishlist quita el id si está.
func (s *State) RemoveFromWishlist(ctx context.Context, productID int64) dto.WishlistResponse {
	if s.wishlist.Remove(productID) {
		s.changed(ctx)
	}
	return s.toWishlistResponse()
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil
// ──────────────────────────────────────────────────────────────────────────────

// Profile vista del perfil con el estado de la subida.
func (s *State) Profile() dto.ProfileResponse {
	return toProfileResponse(s.profile.Snapshot())
}

// UpdateProfileDraft edita nombre o email sin validar.
func (s *State) UpdateProfileDraft(patch profile.Patch) {
	s.profile.UpdateDraft(patch)
}

// SaveProfile valida y confirma el perfil.
func (s *State) SaveProfile(ctx context.Context, name, email string) error {
	if err := s.profile.Save(name, email); err != nil {
		return err
	}
	s.notices.Show(entity.NoticeInfo, "Perfil actualizado correctamente")
	if err := s.persist(ctx); err != nil {
		s.notices.Show(entity.NoticeError, "No se pudo guardar el perfil")
	}
	return nil
}

// PickAvatar verifica permisos y arranca la subida del avatar.
func (s *State) PickAvatar(ctx context.Context, source, uri string) (dto.UploadResponse, error) {
	up, err := s.profile.PickAvatar(ctx, source, uri)
	if err != nil {
		var pe *domain.PermissionDeniedError
		if errors.As(err, &pe) {
			s.notices.Show(entity.NoticeError, "Permiso denegado para acceder a la "+sourceLabel(source))
		}
		return dto.UploadResponse{}, err
	}
	return toUploadResponse(up), nil
}

func sourceLabel(source string) string {
	if source == entity.SourceCamera {
		return "cámara"
	}
	return "galería"
}

// ──────────────────────────────────────────────────────────────────────────────
// Avisos y suscripciones
// ──────────────────────────────────────────────────────────────────────────────

// DismissNotice descarta un aviso antes de su vencimiento.
func (s *State) DismissNotice(id string) bool {
	return s.notices.Dismiss(id)
}

// Snapshot estado completo de la aplicación.
func (s *State) Snapshot() dto.StateResponse {
	v := s.readView()
	return dto.StateResponse{
		Products: s.products(v, ""),
		Cart:     v.cart(),
		Wishlist: s.wishlistOf(v),
		Profile:  s.Profile(),
		Notices:  toNoticeResponses(s.notices.Active()),
	}
}

// Subscribe devuelve un canal que recibe el snapshot más reciente tras cada cambio y la función
// para cancelar la suscripción. Un suscriptor lento solo pierde snapshots intermedios.
func (s *State) Subscribe() (<-chan dto.StateResponse, func()) {
	ch := make(chan dto.StateResponse, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
			s.mu.Unlock()
		})
	}
}

func (s *State) changed(ctx context.Context) {
	if err := s.persist(ctx); err != nil {
		s.notices.Show(entity.NoticeError, "No se pudieron guardar los cambios")
	}
	s.broadcast()
}

// broadcast envía el snapshot actual sin bloquear: si el buffer está lleno se reemplaza.
func (s *State) broadcast() {
	s.mu.Lock()
	empty := len(s.subs) == 0 || s.closed
	s.mu.Unlock()
	if empty {
		return
	}

	snap := s.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

// Go ejecuta fn en segundo plano con el contexto base; Close lo cancela y espera.
func (s *State) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(s.baseCtx)
	}()
	return true
}

// Close cancela el trabajo en segundo plano, detiene subidas y temporizadores y cierra las suscripciones.
func (s *State) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.profile.Close()
	s.notices.Close()

	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()
}
