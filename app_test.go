package routekit_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit"
)

func TestApp_ServeHTTP(t *testing.T) {
	t.Parallel()

	t.Run("body_result_emits_accumulated_state", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Get("/greet", func(m *routekit.Message) (routekit.Result, error) {
			m.SetStatus(http.StatusCreated)
			m.SetHeader("X-Greeting", "yes")
			return routekit.Text("hello"), nil
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/greet", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "hello", w.Body.String())
		assert.Equal(t, "yes", w.Header().Get("X-Greeting"))
	})

	t.Run("handled_result_emits_status_without_body", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Delete("/things/:id", func(m *routekit.Message) (routekit.Result, error) {
			m.SetStatus(http.StatusNoContent)
			return nil, nil
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("DELETE", "/things/3", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("unhandled_yields_404", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("custom_not_found_handler", func(t *testing.T) {
		t.Parallel()

		app := routekit.New(routekit.WithNotFound(func(m *routekit.Message) (routekit.Result, error) {
			return routekit.Text("nothing here"), nil
		}))

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "nothing here", w.Body.String())
	})

	t.Run("handler_error_reaches_error_handler", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Get("/fail", func(m *routekit.Message) (routekit.Result, error) {
			return nil, errors.New("unexpected")
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/fail", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("structured_error_renders_status_and_json", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Get("/forbidden", func(m *routekit.Message) (routekit.Result, error) {
			return nil, routekit.ErrForbidden.WithMessage("nope")
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/forbidden", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"code":"FORBIDDEN","message":"nope"}`, w.Body.String())
	})

	t.Run("partial_headers_visible_to_error_handler", func(t *testing.T) {
		t.Parallel()

		var sawHeader string
		app := routekit.New(routekit.WithErrorHandler(func(m *routekit.Message, err error) {
			sawHeader = m.ResponseWriter().Header().Get("X-Partial")
			m.ResponseWriter().WriteHeader(http.StatusBadGateway)
		}))
		app.Router().Get("/partial", func(m *routekit.Message) (routekit.Result, error) {
			m.SetHeader("X-Partial", "set-before-failure")
			return nil, errors.New("late failure")
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/partial", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "set-before-failure", sawHeader)
	})

	t.Run("panic_recovered_to_error_handler", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Get("/panic", func(m *routekit.Message) (routekit.Result, error) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("externally_handled_suppresses_finalization", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Get("/raw", func(m *routekit.Message) (routekit.Result, error) {
			m.MarkHandled()
			m.SetStatus(http.StatusTeapot)
			return nil, nil
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/raw", nil))

		// The recorder keeps its zero-value 200: nothing was finalized.
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("independent_requests_do_not_share_state", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Get("/users/:id", func(m *routekit.Message) (routekit.Result, error) {
			return routekit.Text(m.Param("id")), nil
		})

		first := httptest.NewRecorder()
		app.ServeHTTP(first, httptest.NewRequest("GET", "/users/1", nil))
		second := httptest.NewRecorder()
		app.ServeHTTP(second, httptest.NewRequest("GET", "/users/2", nil))

		assert.Equal(t, "1", first.Body.String())
		assert.Equal(t, "2", second.Body.String())
	})

	t.Run("failure_does_not_corrupt_router_tree", func(t *testing.T) {
		t.Parallel()

		app := routekit.New()
		app.Router().Get("/flaky", func(m *routekit.Message) (routekit.Result, error) {
			return nil, errors.New("boom")
		})
		app.Router().Get("/stable", func(m *routekit.Message) (routekit.Result, error) {
			return routekit.Text("fine"), nil
		})

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/flaky", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)

		w = httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/stable", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "fine", w.Body.String())
	})
}
