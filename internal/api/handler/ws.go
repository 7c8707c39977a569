package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"opsdash/backend/internal/chathub"
	"opsdash/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket. The bearer credential
// is validated once here; no per-message re-authentication happens after
// the upgrade. An invalid credential is fatal to the connection only.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	staffID, err := h.validateAndGetStaffID(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}
	identity, err := h.Directory.Resolve(staffID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown or inactive staff user"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		Hub:      h.Hub,
		Identity: *identity,
		Conn:     conn,
		Send:     make(chan models.Event, 256),
	}

	// Реєстрація клієнта в Chat Hub
	h.Hub.RegisterCh <- client

	// Запуск клієнта: client.Run() сам запустить необхідні goroutines
	client.Run()
}

// bearerToken pulls the credential from the Authorization header, falling
// back to the token query parameter for browser WebSocket clients that
// cannot set headers on the handshake.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}
