package routekit_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit"
)

func messageWithAccept(accept string) *routekit.Message {
	req := httptest.NewRequest("GET", "/", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return routekit.NewMessage(httptest.NewRecorder(), req)
}

func TestMessage_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		accept     string
		candidates []string
		expected   string
		ok         bool
	}{
		{
			name:       "quality_orders_entries",
			accept:     "text/html;q=0.8, application/json;q=0.9",
			candidates: []string{"json", "html"},
			expected:   "json",
			ok:         true,
		},
		{
			name:       "universal_wildcard_returns_first_candidate",
			accept:     "*/*",
			candidates: []string{"json", "html"},
			expected:   "json",
			ok:         true,
		},
		{
			name:       "no_overlap_returns_false",
			accept:     "text/plain",
			candidates: []string{"json", "html"},
			ok:         false,
		},
		{
			name:       "subtype_wildcard_matches_major_type",
			accept:     "text/*",
			candidates: []string{"json", "html"},
			expected:   "html",
			ok:         true,
		},
		{
			name:       "tie_preserves_header_order",
			accept:     "text/html, application/json",
			candidates: []string{"json", "html"},
			expected:   "html",
			ok:         true,
		},
		{
			name:       "candidate_order_breaks_within_one_entry",
			accept:     "application/*",
			candidates: []string{"xml", "json"},
			expected:   "xml",
			ok:         true,
		},
		{
			name:       "full_mime_candidates_pass_through",
			accept:     "application/vnd.api+json",
			candidates: []string{"application/vnd.api+json"},
			expected:   "application/vnd.api+json",
			ok:         true,
		},
		{
			name:       "missing_header_accepts_first_candidate",
			accept:     "",
			candidates: []string{"html", "json"},
			expected:   "html",
			ok:         true,
		},
		{
			name:       "no_candidates_returns_false",
			accept:     "*/*",
			candidates: nil,
			ok:         false,
		},
		{
			name:       "case_insensitive_mime_match",
			accept:     "Application/JSON",
			candidates: []string{"json"},
			expected:   "json",
			ok:         true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := messageWithAccept(tt.accept)
			got, ok := m.Accepts(tt.candidates...)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestMessage_Accepting(t *testing.T) {
	t.Parallel()

	t.Run("invokes_matching_handler", func(t *testing.T) {
		t.Parallel()

		m := messageWithAccept("application/json")
		res, err := m.Accepting(
			routekit.Offer{Type: "html", Handle: textHandler("html")},
			routekit.Offer{Type: "json", Handle: textHandler("json")},
			routekit.Else(textHandler("fallback")),
		)
		require.NoError(t, err)
		assert.Equal(t, "json", bodyContent(t, res))
	})

	t.Run("falls_back_to_else", func(t *testing.T) {
		t.Parallel()

		m := messageWithAccept("image/png")
		res, err := m.Accepting(
			routekit.Offer{Type: "json", Handle: textHandler("json")},
			routekit.Else(textHandler("fallback")),
		)
		require.NoError(t, err)
		assert.Equal(t, "fallback", bodyContent(t, res))
	})

	t.Run("missing_else_is_config_error", func(t *testing.T) {
		t.Parallel()

		m := messageWithAccept("application/json")
		_, err := m.Accepting(
			routekit.Offer{Type: "json", Handle: textHandler("json")},
		)
		assert.ErrorIs(t, err, routekit.ErrMissingElse)
	})

	t.Run("nil_offer_handler_is_config_error", func(t *testing.T) {
		t.Parallel()

		m := messageWithAccept("application/json")
		_, err := m.Accepting(
			routekit.Offer{Type: "json"},
			routekit.Else(textHandler("fallback")),
		)
		assert.ErrorIs(t, err, routekit.ErrNilHandler)
	})

	t.Run("offer_order_is_candidate_order", func(t *testing.T) {
		t.Parallel()

		m := messageWithAccept("text/*")
		res, err := m.Accepting(
			routekit.Offer{Type: "text", Handle: textHandler("plain")},
			routekit.Offer{Type: "html", Handle: textHandler("html")},
			routekit.Else(textHandler("fallback")),
		)
		require.NoError(t, err)
		assert.Equal(t, "plain", bodyContent(t, res))
	})
}
