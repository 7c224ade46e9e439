// Package extension provides built-in extensions for routekit applications:
// request-ID decoration, structured request logging, security response
// headers, and websocket socket takeover. Each one is a routekit.Factory and
// is installed via App.Install.
package extension
