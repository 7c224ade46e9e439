package routekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	t.Parallel()

	t.Run("literal_segments", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/", "/users/all")
		require.NoError(t, err)

		params, ok := p.Match("/users/all")
		assert.True(t, ok)
		assert.Nil(t, params)

		_, ok = p.Match("/users")
		assert.False(t, ok)
		_, ok = p.Match("/users/all/extra")
		assert.False(t, ok)
	})

	t.Run("named_params", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/", "/users/:id/posts/:post")
		require.NoError(t, err)

		params, ok := p.Match("/users/42/posts/7")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"id": "42", "post": "7"}, params)
	})

	t.Run("param_requires_one_or_more_chars", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/", "/users/:id")
		require.NoError(t, err)

		_, ok := p.Match("/users/")
		assert.False(t, ok)
		_, ok = p.Match("/users")
		assert.False(t, ok)
	})

	t.Run("wildcard_tail", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/", "/files/*")
		require.NoError(t, err)

		_, ok := p.Match("/files/a/b/c")
		assert.True(t, ok, "wildcard must match across slashes")
		_, ok = p.Match("/files/")
		assert.True(t, ok)
		_, ok = p.Match("/files")
		assert.False(t, ok)
	})

	t.Run("optional_trailing_slash_on_base_path", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/api/", "")
		require.NoError(t, err)

		_, ok := p.Match("/api/")
		assert.True(t, ok)
		_, ok = p.Match("/api")
		assert.True(t, ok)
		_, ok = p.Match("/api/v1")
		assert.False(t, ok)
	})

	t.Run("root_pattern", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/", "")
		require.NoError(t, err)

		_, ok := p.Match("/")
		assert.True(t, ok)
		_, ok = p.Match("/anything")
		assert.False(t, ok)
	})

	t.Run("case_sensitive", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/", "/Users")
		require.NoError(t, err)

		_, ok := p.Match("/users")
		assert.False(t, ok)
	})

	t.Run("prefix_is_prepended", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/api/", "/users/:id")
		require.NoError(t, err)
		assert.Equal(t, "/api/users/:id", p.String())

		params, ok := p.Match("/api/users/42")
		require.True(t, ok)
		assert.Equal(t, "42", params["id"])

		_, ok = p.Match("/users/42")
		assert.False(t, ok)
	})

	t.Run("empty_param_name_is_config_error", func(t *testing.T) {
		t.Parallel()

		_, err := compilePattern("/", "/users/:")
		assert.ErrorIs(t, err, ErrEmptyParamName)
	})

	t.Run("duplicate_param_is_config_error", func(t *testing.T) {
		t.Parallel()

		_, err := compilePattern("/", "/a/:id/b/:id")
		assert.ErrorIs(t, err, ErrDuplicateParam)
	})

	t.Run("mid_pattern_wildcard_is_config_error", func(t *testing.T) {
		t.Parallel()

		_, err := compilePattern("/", "/files/*/meta")
		assert.ErrorIs(t, err, ErrWildcardPosition)
	})
}

func TestNormalizePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prefix   string
		expected string
	}{
		{name: "empty", prefix: "", expected: "/"},
		{name: "root", prefix: "/", expected: "/"},
		{name: "bare", prefix: "api", expected: "/api/"},
		{name: "leading_only", prefix: "/api", expected: "/api/"},
		{name: "already_normalized", prefix: "/api/", expected: "/api/"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, normalizePrefix(tt.prefix))
		})
	}
}
