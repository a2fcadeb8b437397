package game

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const websocketWriteWait = 5 * time.Second

// WebsocketConn carries one input line per text frame in each direction.
type WebsocketConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWebsocketConn wraps an upgraded connection.
func NewWebsocketConn(conn *websocket.Conn) *WebsocketConn {
	return &WebsocketConn{conn: conn}
}

func (c *WebsocketConn) ReadLine() (string, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (c *WebsocketConn) WriteString(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(websocketWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

func (c *WebsocketConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(websocketWriteWait))
	return c.conn.Close()
}

// WebsocketHandler upgrades requests and runs a session on each connection.
func WebsocketHandler(world *World, dispatcher Dispatcher, opts ...ServerOption) http.Handler {
	options := collectOptions(opts)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			world.Logger().Warn("websocket upgrade failed", zap.String("addr", r.RemoteAddr), zap.Error(err))
			return
		}
		serveSession(world, NewWebsocketConn(conn), r.RemoteAddr, "websocket", dispatcher, options.welcome)
	})
}
