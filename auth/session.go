package auth

// Failure is one recorded authentication error: a machine-readable code
// paired with a human-readable message. Strategies accumulate failures on
// the session instead of returning errors from their phases.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Options carries the per-request options the framework resolves before
// invoking a strategy phase.
type Options struct {
	// RedirectURL is the computed callback URL for the session's provider.
	// A provider configuration may override it.
	RedirectURL string

	// State is the anti-forgery token to thread through the authorization
	// redirect. Empty means no state parameter is added.
	State string
}

// Session is the per-request context a strategy operates on. It is owned
// by exactly one request for the duration of that request and must not be
// shared across goroutines.
type Session struct {
	// Provider is the provider key this session authenticates against.
	Provider string

	// Params holds the callback query parameters.
	Params map[string]string

	// Options holds the resolved per-request options.
	Options Options

	// RedirectURL is the request-phase output: the authorization URL the
	// user agent should be redirected to.
	RedirectURL string

	// State is strategy-owned private state. The owning strategy stores a
	// single typed struct here and retrieves it with a typed accessor;
	// nothing else reads it.
	State any

	failures []Failure
}

// NewSession creates a session for one request against the named provider.
func NewSession(provider string, params map[string]string, opts Options) *Session {
	return &Session{
		Provider: provider,
		Params:   params,
		Options:  opts,
	}
}

// Param returns the named callback parameter, or "" when absent.
func (s *Session) Param(name string) string {
	if s.Params == nil {
		return ""
	}
	return s.Params[name]
}

// Fail records one or more failures on the session.
func (s *Session) Fail(failures ...Failure) {
	s.failures = append(s.failures, failures...)
}

// Failed reports whether any failure has been recorded.
func (s *Session) Failed() bool {
	return len(s.failures) > 0
}

// Failures returns the recorded failures in order.
func (s *Session) Failures() []Failure {
	return s.failures
}
