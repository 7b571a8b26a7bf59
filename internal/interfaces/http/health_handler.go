package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopfront/internal/infrastructure/redisstore"
)

// CatalogCache contadores de la caché de páginas del catálogo.
type CatalogCache interface {
	Stats() redisstore.CacheStats
}

// HealthHandler estado del servicio y, si hay caché de catálogo, sus contadores.
type HealthHandler struct {
	service string
	cache   CatalogCache
}

func NewHealthHandler(service string, cache CatalogCache) *HealthHandler {
	return &HealthHandler{service: service, cache: cache}
}

// Get godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200
// @Router       /health [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	body := fiber.Map{"status": "ok", "service": h.service}
	if h.cache != nil {
		body["catalog_cache"] = h.cache.Stats()
	}
	return c.JSON(body)
}
