package routekit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	bodyUntouched = iota
	bodyBuffered
	bodyStreaming
)

// Message is the per-request context. One instance is created per inbound
// request, shared by reference with every extension hook and route handler
// invoked during that request, and never reused. It delegates the
// context.Context methods to the underlying request's context.
type Message struct {
	w   http.ResponseWriter
	req *http.Request

	query   *Values
	cookies map[string]*http.Cookie
	params  map[string]string

	status   int
	handled  bool
	bodyMode int
	bodyBuf  []byte

	caps capabilitySet
}

// NewMessage wraps an incoming request/response pair.
func NewMessage(w http.ResponseWriter, r *http.Request) *Message {
	return &Message{
		w:      w,
		req:    r,
		status: http.StatusOK,
	}
}

// Deadline delegates to the request's context.
func (m *Message) Deadline() (deadline time.Time, ok bool) {
	return m.req.Context().Deadline()
}

// Done delegates to the request's context.
func (m *Message) Done() <-chan struct{} {
	return m.req.Context().Done()
}

// Err delegates to the request's context.
func (m *Message) Err() error {
	return m.req.Context().Err()
}

// Value delegates to the request's context.
func (m *Message) Value(key any) any {
	return m.req.Context().Value(key)
}

// Request returns the underlying *http.Request.
func (m *Message) Request() *http.Request {
	return m.req
}

// ResponseWriter returns the underlying http.ResponseWriter.
func (m *Message) ResponseWriter() http.ResponseWriter {
	return m.w
}

// Method returns the request method.
func (m *Message) Method() string {
	return m.req.Method
}

// URL returns the full request URL.
func (m *Message) URL() *url.URL {
	return m.req.URL
}

// Path returns the request path with the query string stripped.
func (m *Message) Path() string {
	if p := m.req.URL.Path; p != "" {
		return p
	}
	return "/"
}

// Query returns the order-preserving query parameter container, parsed once
// on first access.
func (m *Message) Query() *Values {
	if m.query == nil {
		m.query = parseQuery(m.req.URL.RawQuery)
	}
	return m.query
}

// QueryValue returns the first query value for key, or "".
func (m *Message) QueryValue(key string) string {
	return m.Query().Get(key)
}

// Cookie returns the named request cookie. The cookie view is parsed once
// and immutable for the request's lifetime.
func (m *Message) Cookie(name string) (*http.Cookie, bool) {
	if m.cookies == nil {
		m.cookies = make(map[string]*http.Cookie)
		for _, c := range m.req.Cookies() {
			m.cookies[c.Name] = c
		}
	}
	c, ok := m.cookies[name]
	return c, ok
}

// Param returns the value of a captured route parameter.
func (m *Message) Param(key string) string {
	return m.params[key]
}

// Params returns the captured route parameters.
func (m *Message) Params() map[string]string {
	return m.params
}

// setParams binds captured parameters, overwriting prior values per key.
// Last writer wins: matching is sequential and stops at the first claimant.
func (m *Message) setParams(params map[string]string) {
	if len(params) == 0 {
		return
	}
	if m.params == nil {
		m.params = make(map[string]string, len(params))
	}
	for k, v := range params {
		m.params[k] = v
	}
}

// SetStatus sets the response status to emit at finalization. Default 200.
func (m *Message) SetStatus(code int) *Message {
	m.status = code
	return m
}

// StatusCode returns the currently accumulated response status.
func (m *Message) StatusCode() int {
	return m.status
}

// SetHeader sets a response header, replacing existing values.
func (m *Message) SetHeader(key, value string) *Message {
	m.w.Header().Set(key, value)
	return m
}

// AddHeader appends a response header value. Headers accumulate across
// handler and extension contributions, they are never reset wholesale.
func (m *Message) AddHeader(key, value string) *Message {
	m.w.Header().Add(key, value)
	return m
}

// SetCookie adds a Set-Cookie header for the given cookie.
func (m *Message) SetCookie(c *http.Cookie) *Message {
	http.SetCookie(m.w, c)
	return m
}

// RemoveCookie instructs the client to drop the named cookie.
func (m *Message) RemoveCookie(name string) *Message {
	http.SetCookie(m.w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
	return m
}

// MarkHandled flags the response as externally handled: the caller's default
// finalization is suppressed because the connection was already dealt with
// directly (socket takeover and the like).
func (m *Message) MarkHandled() {
	m.handled = true
}

// ExternallyHandled reports whether default finalization is suppressed.
func (m *Message) ExternallyHandled() bool {
	return m.handled
}

// JSON serializes v, sets the content type, and returns a body result.
func (m *Message) JSON(v any) (Result, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m.SetHeader("Content-Type", "application/json; charset=utf-8")
	return Bytes(data), nil
}

// Redirect issues a temporary redirect (307). For PUT and POST requests it
// uses 303 See Other instead, for clients that mishandle redirected unsafe
// methods.
func (m *Message) Redirect(location string) Result {
	return m.redirect(location, http.StatusTemporaryRedirect)
}

// RedirectPermanent issues a permanent redirect (308), downgraded to 303 for
// PUT and POST requests.
func (m *Message) RedirectPermanent(location string) Result {
	return m.redirect(location, http.StatusPermanentRedirect)
}

// RedirectPermanentCompat issues a legacy permanent redirect (301),
// downgraded to 303 for PUT and POST requests.
func (m *Message) RedirectPermanentCompat(location string) Result {
	return m.redirect(location, http.StatusMovedPermanently)
}

func (m *Message) redirect(location string, status int) Result {
	if m.req.Method == http.MethodPut || m.req.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	m.SetHeader("Location", location)
	m.SetStatus(status)
	return Handled()
}

// Body buffers and returns the request body. Buffer and stream access are
// mutually exclusive per request; the first access mode wins.
func (m *Message) Body() ([]byte, error) {
	switch m.bodyMode {
	case bodyStreaming:
		return nil, ErrBodyStreamed
	case bodyBuffered:
		return m.bodyBuf, nil
	}

	buf, err := io.ReadAll(m.req.Body)
	if err != nil {
		return nil, err
	}
	_ = m.req.Body.Close()
	m.bodyMode = bodyBuffered
	m.bodyBuf = buf
	return buf, nil
}

// BodyStream returns the raw request body stream. Fails once the body has
// been buffered.
func (m *Message) BodyStream() (io.ReadCloser, error) {
	if m.bodyMode == bodyBuffered {
		return nil, ErrBodyBuffered
	}
	m.bodyMode = bodyStreaming
	return m.req.Body, nil
}

// Capability looks up a value contributed by extension decoration.
func (m *Message) Capability(key Capability) (any, bool) {
	return m.caps.get(key)
}

// SetCapability stores a decoration value on the message.
func (m *Message) SetCapability(key Capability, value any) {
	m.caps.set(key, value)
}
