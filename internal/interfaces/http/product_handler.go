package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/shopfront/internal/application/appstate"
)

// ProductHandler lista productos y dispara cargas del catálogo.
type ProductHandler struct {
	state *appstate.State
	log   zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(state *appstate.State, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{state: state, log: log}
}

// List godoc
// @Summary      Listar productos cargados
// @Tags         products
// @Produce      json
// @Param        q    query  string  false  "Filtro por título (sin distinguir mayúsculas)"
// @Success      200  {object}  dto.ProductPageResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.state.Products(c.Query("q")))
}

// Refresh godoc
// @Summary      Recargar la primera página
// @Tags         products
// @Produce      json
// @Param        async  query  bool  false  "Responder 202 sin esperar la carga"
// @Success      200  {object}  dto.ProductPageResponse
// @Success      202  {object}  dto.ProductPageResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/refresh [post]
func (h *ProductHandler) Refresh(c *fiber.Ctx) error {
	return h.run(c, "refresh", h.state.Refresh)
}

// Next godoc
// @Summary      Cargar la página siguiente
// @Tags         products
// @Produce      json
// @Param        async  query  bool  false  "Responder 202 sin esperar la carga"
// @Success      200  {object}  dto.ProductPageResponse
// @Success      202  {object}  dto.ProductPageResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/next [post]
func (h *ProductHandler) Next(c *fiber.Ctx) error {
	return h.run(c, "next", h.state.LoadNextPage)
}

// Retry godoc
// @Summary      Reintentar la última carga fallida
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductPageResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/retry [post]
func (h *ProductHandler) Retry(c *fiber.Ctx) error {
	return h.run(c, "retry", h.state.Retry)
}

// ClearError godoc
// @Summary      Descartar el error de carga visible
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductPageResponse
// @Router       /api/products/error [delete]
func (h *ProductHandler) ClearError(c *fiber.Ctx) error {
	h.state.ClearError()
	return c.JSON(h.state.Products(""))
}

// run ejecuta la carga en línea o, con ?async=true, en segundo plano respondiendo 202.
func (h *ProductHandler) run(c *fiber.Ctx, op string, fn func(context.Context) error) error {
	if c.QueryBool("async") {
		h.state.Go(func(ctx context.Context) {
			if err := fn(ctx); err != nil {
				h.log.Warn().Err(err).Str("op", op).Msg("carga de catálogo en segundo plano fallida")
			}
		})
		return c.Status(fiber.StatusAccepted).JSON(h.state.Products(""))
	}
	if err := fn(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.state.Products(""))
}
