package extension

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/routekit"
)

// WebSocketCapability is the message capability key under which the shared
// upgrader is published.
const WebSocketCapability routekit.Capability = "extension.websocket"

// ErrWebSocketNotInstalled is returned by Upgrade when the websocket
// extension was never installed on the application.
var ErrWebSocketNotInstalled = errors.New("extension: websocket extension not installed")

// WebSocketConfig configures the websocket extension.
type WebSocketConfig struct {
	// ReadBufferSize for the upgraded connection (default: 1024)
	ReadBufferSize int
	// WriteBufferSize for the upgraded connection (default: 1024)
	WriteBufferSize int
	// CheckOrigin validates the Origin header (default: same-origin only,
	// per gorilla/websocket)
	CheckOrigin func(r *http.Request) bool
	// Subprotocols lists the supported subprotocols in preference order
	Subprotocols []string
	// EnableCompression negotiates per-message compression
	EnableCompression bool
}

type webSocket struct {
	upgrader *websocket.Upgrader
}

// WebSocket creates the websocket extension with default configuration.
// It publishes a shared upgrader on every message; handlers call Upgrade to
// take over the connection.
func WebSocket() routekit.Factory {
	return WebSocketWithConfig(WebSocketConfig{})
}

// WebSocketWithConfig creates the websocket extension with custom configuration.
func WebSocketWithConfig(cfg WebSocketConfig) routekit.Factory {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = 1024
	}
	if cfg.WriteBufferSize <= 0 {
		cfg.WriteBufferSize = 1024
	}
	return func(app *routekit.App) (routekit.Extension, error) {
		return &webSocket{
			upgrader: &websocket.Upgrader{
				ReadBufferSize:    cfg.ReadBufferSize,
				WriteBufferSize:   cfg.WriteBufferSize,
				CheckOrigin:       cfg.CheckOrigin,
				Subprotocols:      cfg.Subprotocols,
				EnableCompression: cfg.EnableCompression,
			},
		}, nil
	}
}

func (e *webSocket) Name() string { return "websocket" }

func (e *webSocket) DecorateMessage(m *routekit.Message) (routekit.Capabilities, error) {
	return routekit.Capabilities{WebSocketCapability: e.upgrader}, nil
}

// Upgrade hijacks the message's connection and completes the websocket
// handshake. The message is marked externally handled so the dispatch core
// leaves the connection alone; the caller owns the returned connection and
// must close it.
func Upgrade(m *routekit.Message, responseHeader http.Header) (*websocket.Conn, error) {
	v, ok := m.Capability(WebSocketCapability)
	if !ok {
		return nil, ErrWebSocketNotInstalled
	}
	upgrader, ok := v.(*websocket.Upgrader)
	if !ok {
		return nil, ErrWebSocketNotInstalled
	}

	conn, err := upgrader.Upgrade(m.ResponseWriter(), m.Request(), responseHeader)
	if err != nil {
		return nil, err
	}
	m.MarkHandled()
	return conn, nil
}

// RequireWebSocket is a precondition that claims only websocket handshake
// requests, letting plain HTTP requests fall through to later routes.
func RequireWebSocket(m *routekit.Message) (bool, error) {
	return websocket.IsWebSocketUpgrade(m.Request()), nil
}
