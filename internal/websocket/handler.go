package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection, queues the initial state and pumps
// updates until the peer goes away. since is the version of initial; updates
// at or below it are not sent. A nil initial waits for the first update.
func ServeWs(hub *Hub, c *websocket.Conn, workspaceID uuid.UUID, since uint64, initial []byte) {
	client := &Client{Hub: hub, Conn: c, WorkspaceID: workspaceID, Send: make(chan []byte, sendBuffer), version: since}
	if initial != nil {
		client.Send <- initial
	}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
