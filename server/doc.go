// Package server runs a routekit application (or any http.Handler) on an
// http.Server with sane timeouts, optional TLS, and graceful shutdown.
//
// Basic usage:
//
//	app := routekit.New()
//	app.Router().Get("/", homeHandler)
//
//	srv := server.New(":8080", server.WithLogger(logger))
//	if err := srv.Start(ctx, app); err != nil {
//		log.Fatal(err)
//	}
//
// For environment-driven setup, load a Config and use NewFromConfig:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg)
package server
