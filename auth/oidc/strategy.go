package oidc

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/authkit/auth"
	"github.com/kbukum/authkit/logger"
)

// Failure codes and messages of the callback pipeline.
const (
	// FailureConfiguration is recorded when a provider is unknown or the
	// authorization endpoint cannot be resolved.
	FailureConfiguration = "configuration_error"
	// FailureMissingCode is recorded when the callback carries no code.
	FailureMissingCode = "missing_code"
	// FailureUnknownResponse is recorded when a protocol call returned a
	// shape matching no known success or error pattern.
	FailureUnknownResponse = "unknown_error"
	// FailureUserInfo is recorded when the userinfo fetch fails.
	FailureUserInfo = "userinfo_error"

	msgAuthURL     = "Authorization URL could not be constructed"
	msgMissingCode = "Query string does not contain field 'code'"
)

// Bundle is the per-callback state the pipeline accumulates. It lives on
// the session for the duration of one request and is nulled by Cleanup.
type Bundle struct {
	// Opts is the resolved provider configuration; set as soon as config
	// resolution succeeds so diagnostics see it even on later failure.
	Opts *ResolvedOptions

	// Tokens is the token endpoint response map.
	Tokens map[string]any

	// Claims is the verified ID-token claims map.
	Claims map[string]any

	// UserInfo is the userinfo document, or nil when not fetched.
	UserInfo map[string]any
}

// Strategy implements auth.Strategy for OpenID Connect providers using
// the authorization-code flow.
type Strategy struct {
	store  ConfigStore
	client Client
	log    *logger.Logger
	tracer trace.Tracer
}

// New creates an OIDC strategy over the given configuration store and
// protocol client.
func New(store ConfigStore, client Client) *Strategy {
	return &Strategy{
		store:  store,
		client: client,
		log:    logger.WithComponent("oidc"),
		tracer: otel.Tracer("github.com/kbukum/authkit/auth/oidc"),
	}
}

// Name implements auth.Strategy.
func (st *Strategy) Name() string { return "oidc" }

// RequestPhase builds the authorization redirect URL for the session's
// provider. The redirect URI is the provider override when configured,
// else the framework-computed callback URL from the session options. The
// state parameter is appended only when the caller supplied one.
func (st *Strategy) RequestPhase(ctx context.Context, s *auth.Session) {
	cfg, ok := st.store.Provider(s.Provider)
	if !ok {
		s.Fail(auth.Failure{Code: FailureConfiguration, Message: msgAuthURL})
		return
	}
	cfg.ApplyDefaults()
	opts := resolveOptions(s.Provider, cfg, s.Options.RedirectURL)

	endpoint := cfg.AuthorizationEndpoint
	if endpoint == "" {
		doc, err := st.client.DiscoveryDocument(ctx, s.Provider)
		if err != nil {
			st.log.Warn("authorization endpoint discovery failed", logger.ErrorFields("request_phase", err))
			s.Fail(auth.Failure{Code: FailureConfiguration, Message: msgAuthURL})
			return
		}
		endpoint = doc.AuthorizationEndpoint
	}
	if endpoint == "" {
		s.Fail(auth.Failure{Code: FailureConfiguration, Message: msgAuthURL})
		return
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", opts.RedirectURL)
	q.Set("scope", strings.Join(cfg.Scopes, " "))
	if s.Options.State != "" {
		q.Set("state", s.Options.State)
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	s.RedirectURL = endpoint + sep + q.Encode()
}

// CallbackPhase runs the code-exchange pipeline. Each step short-circuits
// on failure: once a failure is recorded no later step executes, and the
// bundle reflects whatever was computed before the halt.
func (st *Strategy) CallbackPhase(ctx context.Context, s *auth.Session) {
	ctx, span := st.tracer.Start(ctx, "oidc.callback",
		trace.WithAttributes(attribute.String("auth.provider", s.Provider)))
	defer span.End()

	b := &Bundle{}
	s.State = b

	code := s.Param("code")
	if code == "" {
		st.fail(span, s, auth.Failure{Code: FailureMissingCode, Message: msgMissingCode})
		return
	}

	cfg, ok := st.store.Provider(s.Provider)
	if !ok {
		st.fail(span, s, auth.Failure{Code: FailureConfiguration, Message: fmt.Sprintf("unknown provider %q", s.Provider)})
		return
	}
	cfg.ApplyDefaults()
	b.Opts = resolveOptions(s.Provider, cfg, s.Options.RedirectURL)

	span.AddEvent("exchange")
	res := st.client.Exchange(ctx, s.Provider, code, b.Opts.RedirectURL)
	if res.Kind != ResultOK {
		st.fail(span, s, failureFromResult(res))
		return
	}
	b.Tokens = res.Values

	span.AddEvent("verify")
	rawIDToken, _ := b.Tokens["id_token"].(string)
	res = st.client.VerifyIDToken(ctx, s.Provider, rawIDToken)
	if res.Kind != ResultOK {
		st.fail(span, s, failureFromResult(res))
		return
	}
	b.Claims = res.Values

	if b.Opts.FetchUserInfo {
		span.AddEvent("userinfo")
		accessToken, _ := b.Tokens["access_token"].(string)
		info, err := st.client.UserInfo(ctx, s.Provider, accessToken)
		if err != nil {
			st.fail(span, s, auth.Failure{Code: FailureUserInfo, Message: err.Error()})
			return
		}
		b.UserInfo = info
	}

	st.log.Debug("callback processed", logger.Fields(
		logger.FieldProvider, s.Provider,
		"fetch_userinfo", b.Opts.FetchUserInfo,
	))
}

// fail records the failure on both the session and the span.
func (st *Strategy) fail(span trace.Span, s *auth.Session, f auth.Failure) {
	span.SetStatus(otelcodes.Error, f.Code)
	st.log.Warn("authentication failed", logger.Fields(
		logger.FieldProvider, s.Provider,
		"code", f.Code,
		"message", f.Message,
	))
	s.Fail(f)
}

// failureFromResult maps a non-success result onto a failure pair.
// Generic errors keep the fixed "error" code, typed errors preserve the
// provider's code verbatim, and unrecognized shapes map to the catch-all
// with the original payload rendered into the message.
func failureFromResult(r Result) auth.Failure {
	switch r.Kind {
	case ResultError:
		return auth.Failure{Code: "error", Message: r.Message}
	case ResultTypedError:
		return auth.Failure{Code: r.Code, Message: r.Message}
	default:
		return auth.Failure{Code: FailureUnknownResponse, Message: fmt.Sprintf("%v", r.Raw)}
	}
}

// bundleFrom returns the strategy-owned bundle of the session, or nil
// when no callback has run.
func bundleFrom(s *auth.Session) *Bundle {
	b, _ := s.State.(*Bundle)
	return b
}
