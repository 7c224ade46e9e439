package routekit

import "sync"

// Capability is a typed key under which an extension publishes a value on a
// decorated context. Extensions declare their keys as package-level
// constants so applications can look capabilities up without knowing the
// extension's concrete type.
type Capability string

// Capabilities is the partial set of values a decoration hook contributes
// to a context. Returned sets are merged onto the target in installation
// order with last-writer-wins per key: a later-installed extension silently
// overrides an earlier one's value for the same key.
type Capabilities map[Capability]any

// Extension is a named bundle of optional hooks. An extension implements
// any subset of the lifecycle and decoration interfaces below; the core
// discovers them by type assertion and skips the rest.
type Extension interface {
	Name() string
}

// Factory creates an extension instance for an application. Factories run
// once at install time; a factory error aborts the install.
type Factory func(app *App) (Extension, error)

// ServerAttacher is notified once when its extension is installed.
type ServerAttacher interface {
	OnServerAttach(app *App) error
}

// IncomingMessageHook runs for every inbound message before any decoration
// is applied, letting an extension perform setup first. Return values are
// not merged; it is a pure side-effecting pass.
type IncomingMessageHook interface {
	OnIncomingMessage(m *Message) error
}

// MessageHook runs after the message has been fully decorated and before
// dispatch begins.
type MessageHook interface {
	OnMessage(m *Message) error
}

// MessageHandledHook runs after dispatch produced a claiming result, before
// the response is finalized.
type MessageHandledHook interface {
	OnMessageHandled(m *Message, res Result) error
}

// AppDecorator contributes capabilities to the application context.
type AppDecorator interface {
	DecorateApp(app *App) (Capabilities, error)
}

// RouterDecorator contributes capabilities to router contexts. It runs for
// the root router at install time and for sub-routers at creation time.
type RouterDecorator interface {
	DecorateRouter(r *Router) (Capabilities, error)
}

// MessageDecorator contributes capabilities to every message context.
// Decoration completes before the message is exposed to handlers.
type MessageDecorator interface {
	DecorateMessage(m *Message) (Capabilities, error)
}

// ListenerDecorator contributes capabilities to listeners at registration.
type ListenerDecorator interface {
	DecorateListener(l *Listener) (Capabilities, error)
}

// capabilitySet is the per-context capability registry populated at
// decoration time.
type capabilitySet struct {
	mu     sync.RWMutex
	values map[Capability]any
}

func (c *capabilitySet) get(key Capability) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *capabilitySet) set(key Capability, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[Capability]any)
	}
	c.values[key] = value
}

func (c *capabilitySet) merge(caps Capabilities) {
	if len(caps) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[Capability]any, len(caps))
	}
	for k, v := range caps {
		c.values[k] = v
	}
}

// extensionList is the installed-extensions list shared by the application
// and every router it creates. Append-only after startup, read on every
// request.
type extensionList struct {
	mu   sync.RWMutex
	exts []Extension
}

func (el *extensionList) append(e Extension) {
	el.mu.Lock()
	el.exts = append(el.exts, e)
	el.mu.Unlock()
}

func (el *extensionList) snapshot() []Extension {
	el.mu.RLock()
	defer el.mu.RUnlock()
	exts := make([]Extension, len(el.exts))
	copy(exts, el.exts)
	return exts
}

func (el *extensionList) decorateRouter(r *Router) error {
	for _, e := range el.snapshot() {
		d, ok := e.(RouterDecorator)
		if !ok {
			continue
		}
		caps, err := d.DecorateRouter(r)
		if err != nil {
			return err
		}
		r.caps.merge(caps)
	}
	return nil
}

func (el *extensionList) decorateListener(l *Listener) error {
	for _, e := range el.snapshot() {
		d, ok := e.(ListenerDecorator)
		if !ok {
			continue
		}
		caps, err := d.DecorateListener(l)
		if err != nil {
			return err
		}
		l.caps.merge(caps)
	}
	return nil
}

// prepareMessage runs the per-message extension pipeline: the side-effecting
// incoming pass for every extension first, then the decoration merge pass,
// then the post-decoration message pass. Each pass walks extensions in
// installation order and completes before the next begins.
func (el *extensionList) prepareMessage(m *Message) error {
	exts := el.snapshot()

	for _, e := range exts {
		if h, ok := e.(IncomingMessageHook); ok {
			if err := h.OnIncomingMessage(m); err != nil {
				return err
			}
		}
	}

	for _, e := range exts {
		if d, ok := e.(MessageDecorator); ok {
			caps, err := d.DecorateMessage(m)
			if err != nil {
				return err
			}
			m.caps.merge(caps)
		}
	}

	for _, e := range exts {
		if h, ok := e.(MessageHook); ok {
			if err := h.OnMessage(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (el *extensionList) messageHandled(m *Message, res Result) error {
	for _, e := range el.snapshot() {
		if h, ok := e.(MessageHandledHook); ok {
			if err := h.OnMessageHandled(m, res); err != nil {
				return err
			}
		}
	}
	return nil
}
