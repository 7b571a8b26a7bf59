package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/shopfront/internal/domain"
	"github.com/jhoicas/shopfront/internal/domain/entity"
	"github.com/jhoicas/shopfront/internal/domain/repository"
)

// request identifica una carga en curso: página pedida, generación de refresh y cursor al iniciar.
type request struct {
	page    int
	refresh bool
	gen     uint64
	cursor  int
}

// Store acumula los productos obtenidos del catálogo, deduplicados por id, y el cursor de paginación.
// Todas las mutaciones pasan por mu (un solo escritor); las llamadas al catálogo se hacen sin el lock.
type Store struct {
	source   repository.CatalogSource
	log      zerolog.Logger
	onChange func()

	mu          sync.Mutex
	products    []entity.Product
	seen        map[int64]struct{}
	cursor      int
	inflight    int
	errMsg      string
	hasMore     bool
	initialized bool
	gen         uint64
	failed      *request
}

// NewStore construye el store de productos.
func NewStore(source repository.CatalogSource, log zerolog.Logger) *Store {
	return &Store{
		source:  source,
		log:     log,
		seen:    make(map[int64]struct{}),
		hasMore: true,
	}
}

// OnChange registra la función que se invoca (sin lock) tras cada cambio de estado.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// LoadPage obtiene la página indicada (base 1) y la incorpora saltando ids ya presentes.
func (s *Store) LoadPage(ctx context.Context, page int) error {
	if page < 1 {
		return domain.ErrInvalidInput
	}
	return s.load(ctx, page, false)
}

// invalidator fuente con páginas cacheadas que un refresh debe descartar.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Refresh recarga la página 1 reemplazando la lista completa y dejando el cursor en 0.
// Con datos ya cargados descarta además las páginas cacheadas de la fuente.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	initialized := s.initialized
	s.mu.Unlock()
	if inv, ok := s.source.(invalidator); ok && initialized {
		if err := inv.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo invalidar el cache del catálogo")
		}
	}
	return s.load(ctx, 1, true)
}

// AdvancePage pide la siguiente página. No hace nada si ya hay una carga en curso o no hay más páginas.
func (s *Store) AdvancePage(ctx context.Context) error {
	s.mu.Lock()
	loading, hasMore, initialized, next := s.inflight > 0, s.hasMore, s.initialized, s.cursor+2
	s.mu.Unlock()

	if loading {
		return nil
	}
	if !initialized {
		return s.Refresh(ctx)
	}
	if !hasMore {
		return nil
	}
	return s.load(ctx, next, false)
}

// Retry repite la última carga fallida (misma página, mismo modo) sin avanzar el cursor.
func (s *Store) Retry(ctx context.Context) error {
	s.mu.Lock()
	failed := s.failed
	s.mu.Unlock()
	if failed == nil {
		return nil
	}
	return s.load(ctx, failed.page, failed.refresh)
}

// ClearError descarta el mensaje de error visible.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.failed = nil
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

func (s *Store) load(ctx context.Context, page int, refresh bool) error {
	s.mu.Lock()
	if refresh {
		s.gen++
	}
	req := request{page: page, refresh: refresh, gen: s.gen, cursor: s.cursor}
	s.inflight++
	s.errMsg = ""
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)

	products, err := s.source.Fetch(ctx, page)

	s.mu.Lock()
	s.inflight--
	if s.isStale(req) {
		s.mu.Unlock()
		s.log.Debug().Int("page", page).Bool("refresh", refresh).Msg("resultado de catálogo obsoleto descartado")
		notify(fn)
		return nil
	}
	if err != nil {
		s.errMsg = err.Error()
		s.failed = &req
		s.mu.Unlock()
		s.log.Warn().Err(err).Int("page", page).Msg("fallo al cargar página del catálogo")
		notify(fn)
		return &domain.FetchError{Page: page, Err: err}
	}

	s.failed = nil
	if refresh {
		s.products = s.products[:0:0]
		s.seen = make(map[int64]struct{}, len(products))
		s.cursor = 0
	} else {
		s.cursor = page - 1
	}
	added := s.merge(products)
	s.hasMore = len(products) >= entity.PageSize
	s.initialized = true
	total := len(s.products)
	s.mu.Unlock()

	s.log.Debug().Int("page", page).Int("added", added).Int("total", total).Msg("página incorporada")
	notify(fn)
	return nil
}

// isStale: otro refresh empezó después de esta carga, o el cursor se movió desde que empezó.
func (s *Store) isStale(req request) bool {
	if req.gen != s.gen {
		return true
	}
	return !req.refresh && req.cursor != s.cursor
}

// merge agrega los productos cuyo id no está presente; devuelve cuántos entraron.
func (s *Store) merge(products []entity.Product) int {
	added := 0
	for _, p := range products {
		if _, ok := s.seen[p.ID]; ok {
			continue
		}
		s.seen[p.ID] = struct{}{}
		s.products = append(s.products, p)
		added++
	}
	return added
}

// Snapshot copia del estado actual.
func (s *Store) Snapshot() entity.ProductPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.ProductPage{
		Products:    append([]entity.Product(nil), s.products...),
		Cursor:      s.cursor,
		Loading:     s.inflight > 0,
		Error:       s.errMsg,
		HasMore:     s.hasMore,
		Initialized: s.initialized,
	}
}

// Search filtra los productos acumulados por título; no modifica el store.
func (s *Store) Search(query string) []entity.Product {
	s.mu.Lock()
	products := append([]entity.Product(nil), s.products...)
	s.mu.Unlock()
	return Filter(products, query)
}

// Lookup busca un producto ya cargado por id.
func (s *Store) Lookup(id int64) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; !ok {
		return entity.Product{}, false
	}
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
