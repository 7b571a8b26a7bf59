package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopfront/internal/application/appstate"
	"github.com/jhoicas/shopfront/internal/application/catalog"
	"github.com/jhoicas/shopfront/internal/application/dto"
	"github.com/jhoicas/shopfront/internal/application/notice"
	"github.com/jhoicas/shopfront/internal/application/profile"
	"github.com/jhoicas/shopfront/internal/domain/entity"
	"github.com/jhoicas/shopfront/internal/infrastructure/memory"
	"github.com/jhoicas/shopfront/internal/infrastructure/pdf"
	"github.com/jhoicas/shopfront/internal/infrastructure/redisstore"
	apphttp "github.com/jhoicas/shopfront/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testSource struct {
	mu   sync.Mutex
	fail bool
}

func (s *testSource) Fetch(_ context.Context, page int) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, fmt.Errorf("catálogo caído")
	}
	out := make([]entity.Product, 0, entity.PageSize)
	for i := 1; i <= entity.PageSize; i++ {
		id := int64((page-1)*entity.PageSize + i)
		out = append(out, entity.Product{
			ID:    id,
			Title: fmt.Sprintf("Producto %d", id),
			Price: decimal.RequireFromString("19.99"),
		})
	}
	return out, nil
}

func (s *testSource) setFail(v bool) {
	s.mu.Lock()
	s.fail = v
	s.mu.Unlock()
}

type testEnv struct {
	app    *fiber.App
	state  *appstate.State
	source *testSource
}

// buildTestApp construye la API completa sobre stores reales y un catálogo en memoria.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	src := &testSource{}
	gate := profile.NewStaticGate(map[string]string{entity.SourceCamera: "granted", entity.SourceGallery: "blocked"})
	st := appstate.New(appstate.Deps{
		Catalog: catalog.NewStore(src, zerolog.Nop()),
		Profile: profile.NewStore(gate, time.Millisecond, zerolog.Nop()),
		Notices: notice.NewCenter(time.Minute),
		Repo:    memory.NewStateRepository(),
		PDF:     pdf.NewCartSummaryGenerator(),
		Logger:  zerolog.Nop(),
	})
	t.Cleanup(st.Close)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	apphttp.Router(app, apphttp.RouterDeps{State: st, Logger: zerolog.Nop()})
	return &testEnv{app: app, state: st, source: src}
}

// do lanza la petición y devuelve la respuesta con el cuerpo ya leído.
func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_RefreshNextYBusqueda(t *testing.T) {
	env := buildTestApp(t)

	resp, data := env.do(t, http.MethodPost, "/api/products/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	page := decode[dto.ProductPageResponse](t, data)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 0, page.Cursor)

	resp, data = env.do(t, http.MethodPost, "/api/products/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[dto.ProductPageResponse](t, data)
	assert.Len(t, page.Items, 20)
	assert.Equal(t, 1, page.Cursor)

	_, data = env.do(t, http.MethodGet, "/api/products?q=PRODUCTO%2015", nil)
	page = decode[dto.ProductPageResponse](t, data)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(15), page.Items[0].ID)
	assert.Equal(t, 20, page.Loaded)
}

func TestProducts_NextAsincrono(t *testing.T) {
	env := buildTestApp(t)
	resp, _ := env.do(t, http.MethodPost, "/api/products/next?async=true", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		return len(env.state.Products("").Items) == 10
	}, 2*time.Second, 5*time.Millisecond)
}

func TestProducts_FalloDevuelve502YRetry(t *testing.T) {
	env := buildTestApp(t)
	env.source.setFail(true)

	resp, data := env.do(t, http.MethodPost, "/api/products/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "FETCH_ERROR", decode[dto.ErrorResponse](t, data).Code)

	_, data = env.do(t, http.MethodGet, "/api/products", nil)
	page := decode[dto.ProductPageResponse](t, data)
	require.NotNil(t, page.Error)

	env.source.setFail(false)
	resp, data = env.do(t, http.MethodPost, "/api/products/retry", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[dto.ProductPageResponse](t, data)
	assert.Nil(t, page.Error)
	assert.Len(t, page.Items, 10)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_FlujoCompleto(t *testing.T) {
	env := buildTestApp(t)
	env.do(t, http.MethodPost, "/api/products/refresh", nil)

	resp, data := env.do(t, http.MethodPost, "/api/cart/items", dto.AddToCartRequest{ProductID: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, data = env.do(t, http.MethodPut, "/api/cart/items/2", dto.UpdateQuantityRequest{Quantity: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decode[dto.CartResponse](t, data)
	assert.Equal(t, 3, cart.Count)
	assert.True(t, decimal.RequireFromString("59.97").Equal(cart.Total))

	resp, data = env.do(t, http.MethodPut, "/api/cart/items/2", dto.UpdateQuantityRequest{Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", decode[dto.ErrorResponse](t, data).Code)

	resp, _ = env.do(t, http.MethodGet, "/api/cart/summary.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	_, data = env.do(t, http.MethodDelete, "/api/cart/items/2", nil)
	assert.Empty(t, decode[dto.CartResponse](t, data).Items)

	env.do(t, http.MethodPost, "/api/cart/items", dto.AddToCartRequest{ProductID: 1})
	_, data = env.do(t, http.MethodDelete, "/api/cart", nil)
	assert.Zero(t, decode[dto.CartResponse](t, data).Count)
}

func TestCart_Errores(t *testing.T) {
	env := buildTestApp(t)

	resp, data := env.do(t, http.MethodPost, "/api/cart/items", dto.AddToCartRequest{ProductID: 99})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, data).Code)

	resp, _ = env.do(t, http.MethodPost, "/api/cart/items", dto.AddToCartRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = env.do(t, http.MethodDelete, "/api/cart/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decode[dto.ErrorResponse](t, data).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lista de deseos
// ──────────────────────────────────────────────────────────────────────────────

func TestWishlist_ToggleYRemove(t *testing.T) {
	env := buildTestApp(t)
	env.do(t, http.MethodPost, "/api/products/refresh", nil)

	resp, data := env.do(t, http.MethodPost, "/api/wishlist/toggle", dto.ToggleWishlistRequest{ProductID: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.ToggleWishlistResponse](t, data).InWishlist)

	_, data = env.do(t, http.MethodGet, "/api/wishlist", nil)
	wl := decode[dto.WishlistResponse](t, data)
	require.Len(t, wl.Items, 1)
	assert.Equal(t, int64(5), wl.Items[0].ProductID)

	_, data = env.do(t, http.MethodDelete, "/api/wishlist/5", nil)
	assert.Empty(t, decode[dto.WishlistResponse](t, data).Items)

	resp, _ = env.do(t, http.MethodPost, "/api/wishlist/toggle", dto.ToggleWishlistRequest{ProductID: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestProfile_ValidacionYGuardado(t *testing.T) {
	env := buildTestApp(t)

	resp, data := env.do(t, http.MethodPut, "/api/profile", dto.SaveProfileRequest{Name: "", Email: "abc"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errResp := decode[dto.ErrorResponse](t, data)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, "el nombre es requerido", errResp.Fields["name"])
	assert.Equal(t, "ingrese un email válido", errResp.Fields["email"])

	resp, data = env.do(t, http.MethodPut, "/api/profile", dto.SaveProfileRequest{Name: "Ana", Email: "ana@correo.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prof := decode[dto.ProfileResponse](t, data)
	assert.Equal(t, "Ana", prof.Name)
	assert.Empty(t, prof.FieldErrors)

	name := "Ana María"
	_, data = env.do(t, http.MethodPatch, "/api/profile", dto.UpdateProfileDraftRequest{Name: &name})
	assert.Equal(t, "Ana María", decode[dto.ProfileResponse](t, data).Name)
}

func TestProfile_AvatarPermisos(t *testing.T) {
	env := buildTestApp(t)

	resp, data := env.do(t, http.MethodPost, "/api/profile/avatar", dto.PickAvatarRequest{Source: "gallery", URI: "file://a.jpg"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	errResp := decode[dto.ErrorResponse](t, data)
	assert.Equal(t, "PERMISSION_DENIED", errResp.Code)
	assert.True(t, errResp.OpenSettings)

	resp, data = env.do(t, http.MethodPost, "/api/profile/avatar", dto.PickAvatarRequest{Source: "camera", URI: "file://a.jpg"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	up := decode[dto.UploadResponse](t, data)
	assert.True(t, up.Uploading)
	assert.Equal(t, 0, up.Progress)

	require.Eventually(t, func() bool {
		avatar := env.state.Profile().Avatar
		return avatar != nil && *avatar == "file://a.jpg"
	}, 5*time.Second, 5*time.Millisecond)

	resp, _ = env.do(t, http.MethodPost, "/api/profile/avatar", dto.PickAvatarRequest{Source: "scanner", URI: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado, avisos y WebSocket
// ──────────────────────────────────────────────────────────────────────────────

func TestState_SnapshotYAvisos(t *testing.T) {
	env := buildTestApp(t)
	env.do(t, http.MethodPost, "/api/products/refresh", nil)
	env.do(t, http.MethodPost, "/api/cart/items", dto.AddToCartRequest{ProductID: 1})

	resp, data := env.do(t, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[dto.StateResponse](t, data)
	assert.Equal(t, 1, snap.Cart.Count)
	require.NotEmpty(t, snap.Notices)

	id := snap.Notices[0].ID
	resp, _ = env.do(t, http.MethodDelete, "/api/notices/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/notices/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWS_SinUpgradeDevuelve426(t *testing.T) {
	env := buildTestApp(t)
	resp, _ := env.do(t, http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health
// ──────────────────────────────────────────────────────────────────────────────

type fixedCacheStats struct{ stats redisstore.CacheStats }

func (f fixedCacheStats) Stats() redisstore.CacheStats { return f.stats }

func TestHealth_IncluyeContadoresDeCache(t *testing.T) {
	env := buildTestApp(t)

	resp, data := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, data)
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "catalog_cache", "sin caché no se reportan contadores")

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		State:        env.state,
		Logger:       zerolog.Nop(),
		Service:      "shopfront",
		CatalogCache: fixedCacheStats{stats: redisstore.CacheStats{Hits: 3, Misses: 1}},
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	data, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","service":"shopfront","catalog_cache":{"hits":3,"misses":1,"errors":0}}`, string(data))
}
