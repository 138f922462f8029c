package websocket

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection under sessionID and blocks until it closes. welcome, if any, is the
// first frame the client receives.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, onMessage InboundHandler, welcome ...Message) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 256), onMessage: onMessage}
	for _, msg := range welcome {
		if frame, err := json.Marshal(msg); err == nil {
			client.Send <- frame
		}
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
