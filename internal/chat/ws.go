package chat

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins once a browser client is deployed
	},
}

// WebsocketHandler upgrades HTTP requests and feeds the resulting connection
// through the same admission and session path as a TCP client. One JSON
// Message per text frame; the frame boundary replaces the newline framing.
func WebsocketHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written the HTTP error response.
			s.logger.Error("websocket upgrade failed", "addr", r.RemoteAddr, "error", err)
			return
		}
		s.ServeTransport(&wsTransport{conn: conn})
	}
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) ReadMessage() (*Message, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &m, nil
}

func (t *wsTransport) WriteMessage(m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

func (t *wsTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}
