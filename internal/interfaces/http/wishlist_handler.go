package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopfront/internal/application/appstate"
	"github.com/jhoicas/shopfront/internal/application/dto"
)

// WishlistHandler maneja la lista de deseos.
type WishlistHandler struct {
	state *appstate.State
}

func NewWishlistHandler(state *appstate.State) *WishlistHandler {
	return &WishlistHandler{state: state}
}

// Get godoc
// @Summary      Ver lista de deseos
// @Tags         wishlist
// @Produce      json
// @Success      200  {object}  dto.WishlistResponse
// @Router       /api/wishlist [get]
func (h *WishlistHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.state.Wishlist())
}

// Toggle godoc
// @Summary      Agregar o quitar un producto de la lista de deseos
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ToggleWishlistRequest  true  "Producto"
// @Success      200   {object}  dto.ToggleWishlistResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/wishlist/toggle [post]
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	var in dto.ToggleWishlistRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	inWishlist, err := h.state.ToggleWishlist(c.UserContext(), in.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToggleWishlistResponse{ProductID: in.ProductID, InWishlist: inWishlist})
}

// Remove godoc
// @Summary      Quitar un producto de la lista de deseos
// @Tags         wishlist
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.WishlistResponse
// @Router       /api/wishlist/{id} [delete]
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return invalidID(c)
	}
	return c.JSON(h.state.RemoveFromWishlist(c.UserContext(), id))
}
