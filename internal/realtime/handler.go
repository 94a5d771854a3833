package realtime

import (
	"log/slog"
	"net/http"

	"github.com/eleven-am/caption-backend/internal/shared"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/realtime/:session", h.Subscribe)
}

// @Summary      Subscribe to a session's caption feed
// @Description  Upgrades to a WebSocket and pushes every caption broadcast for the session as a JSON text message
// @Tags         realtime
// @Param        session  path  string  true  "Session identifier"
// @Success      101
// @Failure      400  {object}  shared.APIError
// @Router       /realtime/{session} [get]
func (h *Handler) Subscribe(c echo.Context) error {
	sessionID := c.Param("session")
	if sessionID == "" {
		return shared.BadRequest("missing_session", "session is required")
	}

	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	conn := NewConn(ws, h.logger.With("session_id", sessionID))
	h.manager.Attach(sessionID, conn)

	h.logger.Info("viewer connected", "session_id", sessionID)

	go conn.writePump()
	conn.readPump()

	h.manager.Detach(sessionID, conn)
	h.logger.Info("viewer disconnected", "session_id", sessionID)
	return nil
}
