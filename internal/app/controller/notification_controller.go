package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/websocket"
)

// NotificationController streams cart confirmations and job results over websockets.
type NotificationController struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func NewNotificationController(hub *websocket.Hub, allowedOrigins []string) *NotificationController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &NotificationController{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin.
				return origin == "" || origins[origin]
			},
		},
	}
}

// SessionStream subscribes to the caller's cart session
// GET /api/v1/notifications/ws
func (ctrl *NotificationController) SessionStream(c *gin.Context) {
	session := middleware.GetSessionID(c)
	if session == "" {
		apperrors.BadRequest(c, apperrors.CartSessionRequired, "A cart session is required")
		return
	}
	ctrl.serve(c, websocket.SessionTopic(session))
}

// AdminStream subscribes to automation job results
// GET /api/v1/admin/ws
func (ctrl *NotificationController) AdminStream(c *gin.Context) {
	ctrl.serve(c, websocket.AdminTopic)
}

func (ctrl *NotificationController) serve(c *gin.Context, topic string) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Error("Failed to upgrade to WebSocket", err, map[string]interface{}{
			"topic": topic,
		})
		return
	}

	client := websocket.NewClient(ctrl.hub, &websocket.Conn{Conn: conn}, topic)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"topic": topic,
	})
}
