package extension

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/routekit"
)

// RequestIDCapability is the message capability key under which the request
// ID is published.
const RequestIDCapability routekit.Capability = "extension.requestid"

// RequestIDConfig configures the request ID extension.
type RequestIDConfig struct {
	// HeaderName specifies the header for the request ID (default: "X-Request-ID")
	HeaderName string
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// UseExisting reuses an incoming request ID header when present
	UseExisting bool
}

type requestID struct {
	cfg RequestIDConfig
}

// RequestID creates the request ID extension with default configuration.
// Every message gets a unique identifier, published as a capability and
// echoed in the response headers.
func RequestID() routekit.Factory {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates the request ID extension with custom configuration.
func RequestIDWithConfig(cfg RequestIDConfig) routekit.Factory {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}
	return func(app *routekit.App) (routekit.Extension, error) {
		return &requestID{cfg: cfg}, nil
	}
}

func (e *requestID) Name() string { return "requestid" }

func (e *requestID) DecorateMessage(m *routekit.Message) (routekit.Capabilities, error) {
	var id string
	if e.cfg.UseExisting {
		id = m.Request().Header.Get(e.cfg.HeaderName)
	}
	if id == "" {
		id = e.cfg.Generator()
	}

	m.SetHeader(e.cfg.HeaderName, id)
	return routekit.Capabilities{RequestIDCapability: id}, nil
}

// RequestIDFrom returns the request ID decorated onto the message, or ""
// when the extension is not installed.
func RequestIDFrom(m *routekit.Message) string {
	v, ok := m.Capability(RequestIDCapability)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
