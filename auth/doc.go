// Package auth defines the multi-provider authentication framework:
// the Strategy contract, the per-request Session carrying accumulated
// state and failures, the provider-agnostic Identity record, and a
// thread-safe strategy Registry.
//
// A Strategy implements one authentication protocol (OIDC, SAML, a
// provider-specific OAuth2 dialect, ...). The surrounding HTTP layer
// drives it through two phases:
//
//	s := auth.NewSession("google", params, auth.Options{RedirectURL: cb})
//	strategy.RequestPhase(ctx, s)   // s.RedirectURL or s.Failures()
//	strategy.CallbackPhase(ctx, s)  // populates strategy state or failures
//	uid := strategy.UID(s)
//
// Phases never return errors. Every failure is recorded on the session
// as a Failure pair so the caller can inspect the complete list and
// decide how to respond.
package auth
