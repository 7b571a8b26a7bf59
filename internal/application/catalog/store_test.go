package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopfront/internal/domain"
	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stubSource catálogo en memoria: páginas fijas, errores por página y compuertas para bloquear un Fetch.
type stubSource struct {
	mu      sync.Mutex
	pages   map[int][]entity.Product
	errs    map[int]error
	gates   map[int]chan struct{}
	started chan int
	calls   []int
}

func newStubSource() *stubSource {
	return &stubSource{
		pages:   map[int][]entity.Product{},
		errs:    map[int]error{},
		gates:   map[int]chan struct{}{},
		started: make(chan int, 16),
	}
}

func (s *stubSource) Fetch(ctx context.Context, page int) ([]entity.Product, error) {
	s.mu.Lock()
	s.calls = append(s.calls, page)
	gate := s.gates[page]
	s.mu.Unlock()

	s.started <- page
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[page]; err != nil {
		return nil, err
	}
	return s.pages[page], nil
}

func (s *stubSource) setErr(page int, err error) {
	s.mu.Lock()
	s.errs[page] = err
	s.mu.Unlock()
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// productRange genera productos con ids [from, to].
func productRange(from, to int64) []entity.Product {
	out := make([]entity.Product, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, entity.Product{
			ID:    id,
			Title: fmt.Sprintf("Producto %d", id),
			Price: decimal.NewFromInt(id),
		})
	}
	return out
}

func ids(products []entity.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func newTestStore(src *stubSource) *Store {
	return NewStore(src, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Deduplicación y paginación
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadPage_SolapamientoEntrePaginas(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 10)
	src.pages[2] = productRange(5, 14)
	store := newTestStore(src)
	ctx := context.Background()

	require.NoError(t, store.LoadPage(ctx, 1))
	require.NoError(t, store.LoadPage(ctx, 2))

	snap := store.Snapshot()
	assert.Len(t, snap.Products, 14)
	want := make([]int64, 0, 14)
	for id := int64(1); id <= 14; id++ {
		want = append(want, id)
	}
	assert.Equal(t, want, ids(snap.Products), "orden de primera aparición preservado")
	assert.Equal(t, 1, snap.Cursor)
	assert.True(t, snap.HasMore)
	assert.Empty(t, snap.Error)
}

func TestLoadPage_NuncaDuplicaIds(t *testing.T) {
	src := newStubSource()
	src.pages[1] = append(productRange(1, 5), productRange(1, 5)...)
	src.pages[2] = productRange(3, 12)
	src.pages[3] = productRange(1, 10)
	store := newTestStore(src)
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		require.NoError(t, store.LoadPage(ctx, page))
	}
	seen := map[int64]bool{}
	for _, p := range store.Snapshot().Products {
		assert.False(t, seen[p.ID], "id %d repetido", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, seen, 12)
}

func TestLoadPage_PaginaInvalida(t *testing.T) {
	store := newTestStore(newStubSource())
	assert.ErrorIs(t, store.LoadPage(context.Background(), 0), domain.ErrInvalidInput)
}

func TestLoadPage_PaginaCortaTerminaHasMore(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 10)
	src.pages[2] = productRange(11, 13)
	store := newTestStore(src)
	ctx := context.Background()

	require.NoError(t, store.Refresh(ctx))
	require.NoError(t, store.AdvancePage(ctx))
	assert.False(t, store.Snapshot().HasMore)

	calls := src.callCount()
	require.NoError(t, store.AdvancePage(ctx))
	assert.Equal(t, calls, src.callCount(), "sin más páginas AdvancePage no consulta el catálogo")
}

func TestAdvancePage_SinCargaInicialHaceRefresh(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 10)
	src.pages[2] = productRange(11, 20)
	store := newTestStore(src)
	ctx := context.Background()

	require.NoError(t, store.AdvancePage(ctx))
	snap := store.Snapshot()
	assert.True(t, snap.Initialized)
	assert.Equal(t, 0, snap.Cursor)
	assert.Len(t, snap.Products, 10)

	require.NoError(t, store.AdvancePage(ctx))
	snap = store.Snapshot()
	assert.Equal(t, 1, snap.Cursor)
	assert.Len(t, snap.Products, 20)
}

func TestRefresh_ReemplazaListaYReiniciaCursor(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 10)
	src.pages[2] = productRange(11, 20)
	src.pages[3] = productRange(21, 30)
	store := newTestStore(src)
	ctx := context.Background()

	require.NoError(t, store.Refresh(ctx))
	require.NoError(t, store.AdvancePage(ctx))
	require.NoError(t, store.AdvancePage(ctx))
	require.Equal(t, 2, store.Snapshot().Cursor)

	src.mu.Lock()
	src.pages[1] = productRange(100, 109)
	src.mu.Unlock()
	require.NoError(t, store.Refresh(ctx))

	snap := store.Snapshot()
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, ids(productRange(100, 109)), ids(snap.Products))
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores y reintento
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadPage_FalloConservaListaYPermiteReintento(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 10)
	src.pages[2] = productRange(11, 20)
	store := newTestStore(src)
	ctx := context.Background()

	require.NoError(t, store.Refresh(ctx))
	src.setErr(2, errors.New("sin conexión"))

	err := store.AdvancePage(ctx)
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Page)

	snap := store.Snapshot()
	assert.Len(t, snap.Products, 10, "la lista existente no se toca")
	assert.Equal(t, "sin conexión", snap.Error)
	assert.Equal(t, 0, snap.Cursor, "el cursor no avanza con un fallo")
	assert.False(t, snap.Loading)

	src.setErr(2, nil)
	require.NoError(t, store.Retry(ctx))
	snap = store.Snapshot()
	assert.Len(t, snap.Products, 20)
	assert.Equal(t, 1, snap.Cursor)
	assert.Empty(t, snap.Error)
	assert.Equal(t, []int{1, 2, 2}, src.calls, "el reintento pide la misma página")
}

func TestRetry_SinErrorNoHaceNada(t *testing.T) {
	src := newStubSource()
	store := newTestStore(src)
	require.NoError(t, store.Retry(context.Background()))
	assert.Equal(t, 0, src.callCount())
}

func TestClearError(t *testing.T) {
	src := newStubSource()
	src.setErr(1, errors.New("500"))
	store := newTestStore(src)

	require.Error(t, store.Refresh(context.Background()))
	require.NotEmpty(t, store.Snapshot().Error)
	store.ClearError()
	assert.Empty(t, store.Snapshot().Error)
	require.NoError(t, store.Retry(context.Background()), "sin error pendiente no hay reintento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resultados obsoletos
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadPage_ResultadoObsoletoSeDescarta(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 10)
	src.pages[2] = productRange(11, 20)
	store := newTestStore(src)
	ctx := context.Background()

	require.NoError(t, store.Refresh(ctx))
	<-src.started

	gate := make(chan struct{})
	src.mu.Lock()
	src.gates[2] = gate
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- store.AdvancePage(ctx) }()
	require.Equal(t, 2, <-src.started)
	assert.True(t, store.Snapshot().Loading)

	// Un refresh posterior gana aunque la página 2 llegue después.
	src.mu.Lock()
	src.pages[1] = productRange(50, 59)
	src.mu.Unlock()
	require.NoError(t, store.Refresh(ctx))

	close(gate)
	require.NoError(t, <-done)

	snap := store.Snapshot()
	assert.Equal(t, ids(productRange(50, 59)), ids(snap.Products))
	assert.Equal(t, 0, snap.Cursor)
	assert.False(t, snap.Loading)
}

func TestAdvancePage_NoDuplicaMientrasCarga(t *testing.T) {
	src := newStubSource()
	gate := make(chan struct{})
	src.pages[1] = productRange(1, 10)
	src.gates[1] = gate
	store := newTestStore(src)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- store.Refresh(ctx) }()
	<-src.started

	require.NoError(t, store.AdvancePage(ctx))
	assert.Equal(t, 1, src.callCount(), "AdvancePage es no-op mientras hay una carga en curso")

	close(gate)
	require.NoError(t, <-done)
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda y consulta
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_InsensibleAMayusculas(t *testing.T) {
	src := newStubSource()
	src.pages[1] = []entity.Product{
		{ID: 1, Title: "Camiseta Roja"},
		{ID: 2, Title: "Pantalón AZUL"},
		{ID: 3, Title: "camiseta azul"},
		{ID: 4, Title: "ÑANDÚ de peluche"},
	}
	store := newTestStore(src)
	require.NoError(t, store.Refresh(context.Background()))

	assert.Equal(t, []int64{1, 3}, ids(store.Search("CAMISETA")))
	assert.Equal(t, []int64{2, 3}, ids(store.Search("azul")))
	assert.Equal(t, []int64{4}, ids(store.Search("ñandú")))
	assert.Len(t, store.Search("  "), 4, "query vacía devuelve todo")
	assert.Empty(t, store.Search("zapato"))
	assert.Len(t, store.Snapshot().Products, 4, "la búsqueda no modifica el store")
}

func TestLookup(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 3)
	store := newTestStore(src)
	require.NoError(t, store.Refresh(context.Background()))

	p, ok := store.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "Producto 2", p.Title)

	_, ok = store.Lookup(99)
	assert.False(t, ok)
}

func TestOnChange_SeNotifica(t *testing.T) {
	src := newStubSource()
	src.pages[1] = productRange(1, 10)
	store := newTestStore(src)

	var mu sync.Mutex
	calls := 0
	store.OnChange(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, store.Refresh(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 2, "inicio de carga y resultado")
}
