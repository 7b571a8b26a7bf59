package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopfront/internal/application/appstate"
	"github.com/jhoicas/shopfront/internal/application/dto"
	"github.com/jhoicas/shopfront/internal/application/profile"
)

// ProfileHandler maneja el perfil y la subida del avatar.
type ProfileHandler struct {
	state *appstate.State
}

func NewProfileHandler(state *appstate.State) *ProfileHandler {
	return &ProfileHandler{state: state}
}

// Get godoc
// @Summary      Ver perfil
// @Tags         profile
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.state.Profile())
}

// Save godoc
// @Summary      Guardar perfil (valida nombre y email)
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveProfileRequest  true  "Perfil"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.state.SaveProfile(c.UserContext(), in.Name, in.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.state.Profile())
}

// UpdateDraft godoc
// @Summary      Editar perfil sin validar
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileDraftRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ProfileResponse
// @Router       /api/profile [patch]
func (h *ProfileHandler) UpdateDraft(c *fiber.Ctx) error {
	var in dto.UpdateProfileDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	h.state.UpdateProfileDraft(profile.Patch{Name: in.Name, Email: in.Email})
	return c.JSON(h.state.Profile())
}

// PickAvatar godoc
// @Summary      Elegir avatar desde cámara o galería e iniciar la subida
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PickAvatarRequest  true  "Origen y URI de la imagen"
// @Success      202   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/profile/avatar [post]
func (h *ProfileHandler) PickAvatar(c *fiber.Ctx) error {
	var in dto.PickAvatarRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	up, err := h.state.PickAvatar(c.UserContext(), in.Source, in.URI)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(up)
}
