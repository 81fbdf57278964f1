// Package oidc implements the relying-party half of the OpenID Connect
// authorization-code flow as an auth.Strategy.
//
// One Strategy instance serves any number of named provider
// configurations resolved through a ConfigStore. The request phase
// builds the authorization redirect; the callback phase runs a
// short-circuiting pipeline (code exchange, ID-token verification, and
// an optional userinfo fetch) and the projection methods map the
// accumulated bundle into the framework's Identity views.
//
// Protocol traffic goes through the Client interface. HTTPClient is the
// default implementation; tests substitute fakes. ID-token signature
// checking is delegated to a Verifier: the embedder supplies the key
// material, typically a JWKS-backed jwt.Keyfunc.
//
//	store := oidc.StaticConfigStore{"google": googleCfg}
//	strategy := oidc.New(store, oidc.NewHTTPClient(store, verifier, nil))
//	registry.Register(strategy)
package oidc
