package routekit

import (
	"sync"
	"sync/atomic"
)

// Listener is a single registered (pattern, preconditions, handler) unit.
// It is created by a router's registration call and lives until explicitly
// detached or the owning router goes away.
type Listener struct {
	pattern *Pattern

	// handler is hot-swappable: a replacement takes effect on the next
	// invocation and is deliberately not linearized against an in-flight
	// call.
	handler atomic.Pointer[Handler]

	mu            sync.RWMutex
	preconditions []Precondition

	detachOnce sync.Once
	remove     func()

	caps capabilitySet
}

func newListener(pattern *Pattern, h Handler, remove func()) *Listener {
	l := &Listener{
		pattern: pattern,
		remove:  remove,
	}
	l.handler.Store(&h)
	return l
}

// Pattern returns the raw route pattern the listener was registered with.
func (l *Listener) Pattern() string {
	return l.pattern.String()
}

// ReplaceHandler atomically swaps the active handler. A request already
// inside a handler call is unaffected; the next invocation sees the new one.
func (l *Listener) ReplaceHandler(h Handler) {
	if h == nil {
		panic(ErrNilHandler)
	}
	l.handler.Store(&h)
}

// Require appends a precondition. Preconditions accumulate over the
// listener's lifetime and are evaluated in the order they were added.
func (l *Listener) Require(pred Precondition) *Listener {
	if pred == nil {
		panic(ErrNilPrecondition)
	}
	l.mu.Lock()
	l.preconditions = append(l.preconditions, pred)
	l.mu.Unlock()
	return l
}

// Detach removes the listener from its owning router's dispatch list.
// Calling it more than once is a no-op.
func (l *Listener) Detach() {
	l.detachOnce.Do(func() {
		if l.remove != nil {
			l.remove()
		}
	})
}

// Capability looks up a value contributed by extension decoration.
func (l *Listener) Capability(key Capability) (any, bool) {
	return l.caps.get(key)
}

// SetCapability stores a decoration value on the listener.
func (l *Listener) SetCapability(key Capability, value any) {
	l.caps.set(key, value)
}

// dispatch runs one matching attempt: pattern first, then preconditions in
// order, then the current handler. Captured params are bound onto the
// message only once the listener is committed to running its handler;
// last writer wins since dispatch stops at the first claimant anyway.
func (l *Listener) dispatch(m *Message) (Result, error) {
	params, ok := l.pattern.Match(m.Path())
	if !ok {
		return Unhandled(), nil
	}

	l.mu.RLock()
	preconds := make([]Precondition, len(l.preconditions))
	copy(preconds, l.preconditions)
	l.mu.RUnlock()

	for _, pred := range preconds {
		ok, err := pred(m)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Unhandled(), nil
		}
	}

	m.setParams(params)

	h := *l.handler.Load()
	res, err := h(m)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = Handled()
	}
	return res, nil
}
