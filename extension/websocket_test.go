package extension_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/extension"
)

func TestWebSocket_Echo(t *testing.T) {
	t.Parallel()

	app := routekit.New()
	app.MustInstall(extension.WebSocket())
	app.Router().Get("/ws", func(m *routekit.Message) (routekit.Result, error) {
		conn, err := extension.Upgrade(m, nil)
		if err != nil {
			return nil, err
		}
		defer conn.Close()

		mt, data, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		return nil, conn.WriteMessage(mt, data)
	}).Require(extension.RequireWebSocket)

	srv := httptest.NewServer(app)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(data))
}

func TestWebSocket_PreconditionRejectsPlainHTTP(t *testing.T) {
	t.Parallel()

	app := routekit.New()
	app.MustInstall(extension.WebSocket())
	app.Router().Get("/ws", func(m *routekit.Message) (routekit.Result, error) {
		_, err := extension.Upgrade(m, nil)
		return nil, err
	}).Require(extension.RequireWebSocket)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))

	// Not a handshake request: the precondition declines, nothing else
	// matches, the request falls through to 404.
	assert.Equal(t, 404, w.Code)
}

func TestWebSocket_UpgradeWithoutExtension(t *testing.T) {
	t.Parallel()

	app := routekit.New()

	var upgradeErr error
	app.Router().Get("/ws", func(m *routekit.Message) (routekit.Result, error) {
		_, upgradeErr = extension.Upgrade(m, nil)
		return routekit.Handled(), nil
	})

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ws", nil))

	assert.ErrorIs(t, upgradeErr, extension.ErrWebSocketNotInstalled)
}
