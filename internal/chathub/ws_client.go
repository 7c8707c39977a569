package chathub

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"opsdash/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// WebSocketClient реалізує інтерфейс chathub.Client поверх gorilla/websocket.
type WebSocketClient struct {
	Identity models.Identity
	Conn     *websocket.Conn
	Hub      *ManagerService
	Send     chan models.Event
}

func (c *WebSocketClient) GetUserID() string                   { return c.Identity.ID }
func (c *WebSocketClient) GetIdentity() models.Identity        { return c.Identity }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run запускає 'pumps' для WebSocket.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close закриває Send канал (що зупинить writePump).
func (c *WebSocketClient) Close() {
	close(c.Send)
	// readPump зупиниться сам, коли Conn.Close() буде викликано в його defer
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c // Надсилаємо команду на Unregister
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var ev models.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			log.Printf("Error decoding frame from client %s: %v", c.Identity.ID, err)
			continue // Пропускаємо невірний кадр
		}
		if ev.Name == "" {
			continue
		}

		// Надсилаємо команду у головний канал хаба
		c.Hub.CommandCh <- Command{Client: c, Event: ev}
	}
}

// writePump читає події з каналу Send і записує їх у WebSocket.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрито хабом, закриваємо з'єднання WS
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding event for client %s: %v", c.Identity.ID, err)
				continue
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Перевіряємо, чи є ще події у каналі (для ефективності)
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, err := json.Marshal(next)
				if err != nil {
					continue
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, extra); err != nil {
					return
				}
			}

		case <-ticker.C:
			// Надсилаємо Ping для підтримки з'єднання активним
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
