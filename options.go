package routekit

import "log/slog"

// Option configures an App during creation.
type Option func(*App)

// WithErrorHandler sets a custom error handler for the application.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errh = h
		}
	}
}

// WithNotFound sets a custom handler for requests no listener claims. The
// message status is preset to 404; the handler may override it. Without this
// option unclaimed requests go to the error handler as ErrNotFound.
func WithNotFound(h Handler) Option {
	return func(a *App) {
		a.notFound = h
	}
}

// WithLogger sets the application logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}
