package routekit

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// dispatchTarget is anything insertable into a router's dispatch list:
// listeners and nested routers.
type dispatchTarget interface {
	dispatch(m *Message) (Result, error)
}

// entry is a stable handle in the router's dispatch arena. Detaching nulls
// the handle via the flag without shifting other entries mid-iteration;
// handles are resolved at call time.
type entry struct {
	target   dispatchTarget
	detached atomic.Bool
}

// Router is an ordered collection of listeners and nested sub-routers
// sharing a path prefix. Dispatch is depth-first, left-to-right,
// first-match-wins in registration order; there is no specificity ordering.
type Router struct {
	prefix string
	exts   *extensionList

	mu      sync.RWMutex
	entries []*entry

	detachOnce sync.Once
	remove     func()

	caps capabilitySet
}

func newRouter(prefix string, exts *extensionList) *Router {
	return &Router{
		prefix: normalizePrefix(prefix),
		exts:   exts,
	}
}

// Prefix returns the router's normalized path prefix. It always starts and
// ends with "/" unless it is simply "/".
func (r *Router) Prefix() string {
	return r.prefix
}

// Any compiles the pattern against the router's prefix plus path and
// registers a new listener for every HTTP method. An empty path registers
// against exactly the router's prefix. Invalid patterns and nil handlers
// panic at registration time.
func (r *Router) Any(path string, h Handler) *Listener {
	if h == nil {
		panic(ErrNilHandler)
	}
	pattern, err := compilePattern(r.prefix, path)
	if err != nil {
		panic(err)
	}

	e := &entry{}
	l := newListener(pattern, h, func() { r.removeEntry(e) })
	e.target = l

	if err := r.exts.decorateListener(l); err != nil {
		panic(err)
	}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
	return l
}

// Handle registers a listener for a single HTTP method. The method check is
// just one more precondition on top of Any, not a separate matching mode.
func (r *Router) Handle(method, path string, h Handler) *Listener {
	return r.Any(path, h).Require(MethodIs(method))
}

// Get registers a handler for GET requests.
func (r *Router) Get(path string, h Handler) *Listener {
	return r.Handle(http.MethodGet, path, h)
}

// Post registers a handler for POST requests.
func (r *Router) Post(path string, h Handler) *Listener {
	return r.Handle(http.MethodPost, path, h)
}

// Put registers a handler for PUT requests.
func (r *Router) Put(path string, h Handler) *Listener {
	return r.Handle(http.MethodPut, path, h)
}

// Delete registers a handler for DELETE requests.
func (r *Router) Delete(path string, h Handler) *Listener {
	return r.Handle(http.MethodDelete, path, h)
}

// Patch registers a handler for PATCH requests.
func (r *Router) Patch(path string, h Handler) *Listener {
	return r.Handle(http.MethodPatch, path, h)
}

// Options registers a handler for OPTIONS requests.
func (r *Router) Options(path string, h Handler) *Listener {
	return r.Handle(http.MethodOptions, path, h)
}

// Head registers a handler for HEAD requests.
func (r *Router) Head(path string, h Handler) *Listener {
	return r.Handle(http.MethodHead, path, h)
}

// Route creates a sub-router whose prefix is this router's prefix
// concatenated with the given suffix. The sub-router shares the extension
// list, is decorated by the installed extensions at creation, and its own
// dispatch entry point is appended to this router's target list. Routes
// registered on it are reachable only through the combined prefix.
func (r *Router) Route(path string) *Router {
	sub := newRouter(joinPath(r.prefix, path), r.exts)

	e := &entry{target: sub}
	sub.remove = func() { r.removeEntry(e) }

	if err := r.exts.decorateRouter(sub); err != nil {
		panic(err)
	}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
	return sub
}

// RouteFunc creates a sub-router and hands it to fn for registration.
func (r *Router) RouteFunc(path string, fn func(sub *Router)) *Router {
	if fn == nil {
		panic(ErrNilSubrouter)
	}
	sub := r.Route(path)
	fn(sub)
	return sub
}

// Detach removes this router's own entry from its parent's dispatch list.
// It is idempotent and a no-op at the root.
func (r *Router) Detach() {
	r.detachOnce.Do(func() {
		if r.remove != nil {
			r.remove()
		}
	})
}

// Dispatch walks a snapshot of the current target list in registration
// order and returns the first result that is not Unhandled, or Unhandled
// when every target is exhausted. Mutations to the list during iteration
// (a handler detaching itself, a concurrent registration) do not affect an
// iteration already in progress.
func (r *Router) Dispatch(m *Message) (Result, error) {
	r.mu.RLock()
	snapshot := make([]*entry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	for _, e := range snapshot {
		if e.detached.Load() {
			continue
		}
		res, err := e.target.dispatch(m)
		if err != nil {
			return nil, err
		}
		if IsUnhandled(res) {
			continue
		}
		return res, nil
	}
	return Unhandled(), nil
}

func (r *Router) dispatch(m *Message) (Result, error) {
	return r.Dispatch(m)
}

// Capability looks up a value contributed by extension decoration.
func (r *Router) Capability(key Capability) (any, bool) {
	return r.caps.get(key)
}

// SetCapability stores a decoration value on the router.
func (r *Router) SetCapability(key Capability, value any) {
	r.caps.set(key, value)
}

func (r *Router) removeEntry(e *entry) {
	if e.detached.Swap(true) {
		return
	}
	r.mu.Lock()
	for i, cur := range r.entries {
		if cur == e {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
}
