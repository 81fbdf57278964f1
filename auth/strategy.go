package auth

import "context"

// Strategy is the contract every authentication strategy implements.
// A strategy handles one protocol for any number of named provider
// configurations; the session's Provider field selects which one.
//
// The two phase methods report errors exclusively through the session's
// failure list. A phase that records a failure leaves the session in a
// diagnosable state but never panics or returns an error across this
// boundary.
type Strategy interface {
	// Name returns the strategy identifier (e.g. "oidc").
	Name() string

	// RequestPhase builds the authorization redirect for the session's
	// provider and stores it in session.RedirectURL. On failure it records
	// a Failure and leaves RedirectURL empty.
	RequestPhase(ctx context.Context, s *Session)

	// CallbackPhase processes the provider callback: it consumes the
	// session's Params and populates the strategy-owned session state.
	// The pipeline halts at the first failure.
	CallbackPhase(ctx context.Context, s *Session)

	// UID returns the stable subject identifier, or "" when it cannot be
	// resolved from the callback results.
	UID(s *Session) string

	// Info returns the profile projection of the callback results.
	Info(s *Session) Info

	// Credentials returns the token projection of the callback results.
	Credentials(s *Session) Credentials

	// Extra returns the raw diagnostics passthrough.
	Extra(s *Session) Extra

	// Cleanup resets the strategy-owned session state. Idempotent.
	Cleanup(s *Session)
}
