package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopfront/internal/application/appstate"
	"github.com/jhoicas/shopfront/internal/application/dto"
)

// CartHandler maneja el carrito.
type CartHandler struct {
	state *appstate.State
}

// NewCartHandler construye el handler.
func NewCartHandler(state *appstate.State) *CartHandler {
	return &CartHandler{state: state}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.state.Cart())
}

// AddItem godoc
// @Summary      Agregar una unidad de un producto cargado
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "Producto"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	out, err := h.state.AddToCart(c.UserContext(), in.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Fijar la cantidad de una línea
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateQuantityRequest  true  "Cantidad (>= 1)"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.state.UpdateQuantity(c.UserContext(), id, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar una línea del carrito
// @Tags         cart
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return invalidID(c)
	}
	return c.JSON(h.state.RemoveFromCart(c.UserContext(), id))
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	return c.JSON(h.state.ClearCart(c.UserContext()))
}

// SummaryPDF godoc
// @Summary      Resumen del carrito en PDF
// @Tags         cart
// @Produce      application/pdf
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart/summary.pdf [get]
func (h *CartHandler) SummaryPDF(c *fiber.Ctx) error {
	doc, err := h.state.CartSummaryPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="carrito.pdf"`)
	return c.Send(doc)
}
