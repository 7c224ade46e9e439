package routekit

import "strings"

// Handler processes a matched message and produces a dispatch Result.
// Returning a nil Result with a nil error means the handler fully dealt with
// the request and there is no body to emit (the Handled variant).
type Handler func(m *Message) (Result, error)

// Precondition gates whether a listener's handler runs. Preconditions are
// evaluated in registration order after the pattern has matched; the first
// one that reports false short-circuits the listener with Unhandled.
type Precondition func(m *Message) (bool, error)

// ErrorHandler handles errors that escape dispatch: handler failures,
// precondition failures, extension hook failures, and recovered panics.
type ErrorHandler func(m *Message, err error)

// MethodIs returns a precondition asserting the request method equals the
// given method, compared case-insensitively. Method-specific registration
// (Get, Post, ...) is built on top of this, which keeps method mismatch an
// ordinary precondition failure rather than a special matching mode.
func MethodIs(method string) Precondition {
	want := strings.ToUpper(method)
	return func(m *Message) (bool, error) {
		return strings.ToUpper(m.Method()) == want, nil
	}
}
