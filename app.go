package routekit

import (
	"io"
	"log/slog"
	"net/http"
)

// App ties together the root router, the installed extensions, and the
// http.Handler adapter that reduces a dispatch Result to bytes on the wire.
type App struct {
	root     *Router
	exts     *extensionList
	errh     ErrorHandler
	notFound Handler
	logger   *slog.Logger

	caps capabilitySet
}

// New creates an application with a root router at prefix "/".
func New(opts ...Option) *App {
	a := &App{
		exts:   &extensionList{},
		errh:   defaultErrorHandler,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.root = newRouter("/", a.exts)
	return a
}

// Router returns the root router.
func (a *App) Router() *Router {
	return a.root
}

// Install registers an extension. The factory runs immediately; the new
// instance then decorates the application context and the root router,
// joins the installed list, is attached, and finally the optional setup
// callbacks run against it. Extensions installed later override earlier
// ones on conflicting capability keys.
func (a *App) Install(factory Factory, setup ...func(ext Extension) error) error {
	if factory == nil {
		panic(ErrNilExtensionFactory)
	}

	ext, err := factory(a)
	if err != nil {
		return err
	}
	if ext == nil {
		return ErrNilExtension
	}

	if d, ok := ext.(AppDecorator); ok {
		caps, err := d.DecorateApp(a)
		if err != nil {
			return err
		}
		a.caps.merge(caps)
	}
	if d, ok := ext.(RouterDecorator); ok {
		caps, err := d.DecorateRouter(a.root)
		if err != nil {
			return err
		}
		a.root.caps.merge(caps)
	}

	a.exts.append(ext)

	if s, ok := ext.(ServerAttacher); ok {
		if err := s.OnServerAttach(a); err != nil {
			return err
		}
	}

	for _, fn := range setup {
		if err := fn(ext); err != nil {
			return err
		}
	}
	return nil
}

// MustInstall is Install that panics on error, for use at startup.
func (a *App) MustInstall(factory Factory, setup ...func(ext Extension) error) {
	if err := a.Install(factory, setup...); err != nil {
		panic(err)
	}
}

// Capability looks up a value contributed by extension decoration.
func (a *App) Capability(key Capability) (any, bool) {
	return a.caps.get(key)
}

// SetCapability stores a decoration value on the application.
func (a *App) SetCapability(key Capability, value any) {
	a.caps.set(key, value)
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// ServeHTTP wraps the incoming pair into a Message, runs the extension
// pipeline, dispatches through the root router, and finalizes the result.
// Handler, precondition, and hook failures reach the error handler with any
// partially accumulated headers still visible; they never corrupt the
// router tree or other in-flight requests.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := &responseWriter{ResponseWriter: w}
	m := NewMessage(ww, r)

	defer func() {
		if rec := recover(); rec != nil {
			if !ww.Written() {
				a.errh(m, toError(rec))
			}
		}
	}()

	if err := a.exts.prepareMessage(m); err != nil {
		a.errh(m, err)
		return
	}

	res, err := a.root.Dispatch(m)
	if err != nil {
		a.errh(m, err)
		return
	}

	if IsUnhandled(res) {
		if a.notFound == nil {
			a.errh(m, ErrNotFound)
			return
		}
		m.SetStatus(http.StatusNotFound)
		res, err = a.notFound(m)
		if err != nil {
			a.errh(m, err)
			return
		}
		if res == nil || IsUnhandled(res) {
			res = Handled()
		}
	}

	if err := a.exts.messageHandled(m, res); err != nil {
		a.errh(m, err)
		return
	}

	a.finalize(m, res)
}

// finalize turns a claiming result into bytes on the wire using the status
// and headers accumulated on the message. A message marked externally
// handled suppresses finalization entirely.
func (a *App) finalize(m *Message, res Result) {
	if m.ExternallyHandled() {
		return
	}

	ww, _ := m.ResponseWriter().(*responseWriter)

	body, ok := res.(*BodyResult)
	if !ok {
		// Handled with no body: emit the accumulated status and headers.
		m.ResponseWriter().WriteHeader(m.StatusCode())
		return
	}

	m.ResponseWriter().WriteHeader(m.StatusCode())
	if err := body.emit(m.ResponseWriter()); err != nil {
		if ww != nil && !ww.Written() {
			a.errh(m, err)
			return
		}
		a.logger.Error("response emit failed", "path", m.Path(), "error", err)
	}
}
