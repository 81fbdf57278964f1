// Package bootstrap assembles a complete authkit service from its
// settings: logger, tracing, the OIDC strategy wired to the configured
// providers, and the HTTP server with the auth routes registered.
//
//	var settings config.Settings
//	_ = config.Load("authkit", &settings)
//	app, err := bootstrap.NewApp(&settings)
//	if err != nil { ... }
//	app.Run(context.Background())
package bootstrap
