// Package routekit provides the dispatch core of an HTTP request-routing
// layer: composable routers, precondition-gated route listeners, a three-state
// dispatch protocol, and an extension system that decorates application,
// router, and message contexts with typed capabilities.
//
// Routing is sequential and first-match-wins. Every matching attempt returns a
// Result with exactly one of three variants: a response body to emit, a
// "handled, nothing to emit" marker, or "unhandled, try the next candidate".
// No exceptions or sentinel errors are used for the no-match case.
//
// A minimal application:
//
//	app := routekit.New()
//	app.Router().Get("/users/:id", func(m *routekit.Message) (routekit.Result, error) {
//		return routekit.Text("user " + m.Param("id")), nil
//	})
//	http.ListenAndServe(":8080", app)
//
// Method-specific registration is sugar over Any plus a method precondition,
// so method mismatch behaves exactly like any other failed precondition: the
// listener reports Unhandled and dispatch moves on.
package routekit
