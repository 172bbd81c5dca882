package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a single WebSocket connection. SocketID identifies the
// connection (not the user: one user may hold several), and is what the
// HTTP send path passes in X-Socket-ID so the sender's own connection
// is excluded from fan-out.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	SocketID string
	UserID   int
	Name     string

	// topics this client is subscribed to; touched only by the hub loop.
	topics map[string]bool
}

// request is what clients send over the wire to manage subscriptions.
type request struct {
	Action     string `json:"action"`
	ChatroomID int    `json:"chatroom_id"`
}

// ServeWS upgrades the request and registers the connection with the
// hub. The caller has already authenticated the user.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, userID int, name string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		SocketID: uuid.NewString(),
		UserID:   userID,
		Name:     name,
		topics:   make(map[string]bool),
	}
	hub.register <- client

	// Tell the client its socket id so it can exclude itself from the
	// fan-out of its own HTTP sends.
	connected, _ := json.Marshal(Frame{Type: "connected", Data: map[string]string{"socket_id": client.SocketID}})
	client.send <- connected

	go client.writePump()
	go client.readPump(hub.log)
}

func (c *Client) readPump(log *slog.Logger) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", "error", err)
			}
			return
		}

		var req request
		if err := json.Unmarshal(data, &req); err != nil || req.ChatroomID <= 0 {
			continue
		}

		switch req.Action {
		case "subscribe":
			c.hub.subscribe <- subscription{client: c, topic: Topic(req.ChatroomID)}
		case "unsubscribe":
			c.hub.unsubscribe <- subscription{client: c, topic: Topic(req.ChatroomID)}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
