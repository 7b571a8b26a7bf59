package http

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/shopfront/internal/application/appstate"
	"github.com/jhoicas/shopfront/internal/application/dto"
)

// StateHandler expone el estado completo, los avisos y el stream de snapshots por WebSocket.
type StateHandler struct {
	state *appstate.State
	log   zerolog.Logger
}

func NewStateHandler(state *appstate.State, log zerolog.Logger) *StateHandler {
	return &StateHandler{state: state, log: log}
}

// Get godoc
// @Summary      Estado completo de la aplicación
// @Tags         state
// @Produce      json
// @Success      200  {object}  dto.StateResponse
// @Router       /api/state [get]
func (h *StateHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.state.Snapshot())
}

// DismissNotice godoc
// @Summary      Descartar un aviso
// @Tags         state
// @Produce      json
// @Param        id   path  string  true  "ID del aviso"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notices/{id} [delete]
func (h *StateHandler) DismissNotice(c *fiber.Ctx) error {
	if !h.state.DismissNotice(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "aviso no encontrado"})
	}
	return c.JSON(dto.MessageResponse{Message: "aviso descartado"})
}

// RequireUpgrade rechaza con 426 las peticiones a /ws que no piden upgrade.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.Status(fiber.StatusUpgradeRequired).JSON(dto.ErrorResponse{Code: "UPGRADE_REQUIRED", Message: "se requiere WebSocket"})
}

// Stream envía el snapshot actual al conectar y luego uno por cada cambio. Los mensajes del cliente se ignoran.
func (h *StateHandler) Stream(c *websocket.Conn) {
	connID := uuid.New().String()
	updates, unsubscribe := h.state.Subscribe()
	defer unsubscribe()

	h.log.Debug().Str("conn_id", connID).Msg("websocket conectado")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn().Err(err).Str("conn_id", connID).Msg("websocket cerrado inesperadamente")
				}
				return
			}
		}
	}()

	if err := h.send(c, h.state.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-done:
			h.log.Debug().Str("conn_id", connID).Msg("websocket desconectado")
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.send(c, snap); err != nil {
				h.log.Debug().Err(err).Str("conn_id", connID).Msg("no se pudo enviar snapshot")
				return
			}
		}
	}
}

func (h *StateHandler) send(c *websocket.Conn, snap dto.StateResponse) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, b)
}
