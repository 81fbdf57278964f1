package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit/auth"
	"github.com/kbukum/authkit/auth/oidc"
	apperrors "github.com/kbukum/authkit/errors"
	"github.com/kbukum/authkit/logger"
)

const stateCookie = "authkit_state"

// AuthHandler exposes the two-phase authentication flow over HTTP:
//
//	GET /auth/:provider           begin: redirect to the provider
//	GET /auth/:provider/callback  finish: exchange the callback for an Identity
//
// Strategies are resolved from the registry: a strategy registered under
// the provider key wins, otherwise the registry default handles it.
type AuthHandler struct {
	registry *auth.Registry
	log      *logger.Logger
}

// NewAuthHandler creates a handler backed by the given strategy registry.
func NewAuthHandler(registry *auth.Registry, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &AuthHandler{
		registry: registry,
		log:      log.WithComponent("auth_handler"),
	}
}

// RegisterRoutes registers the auth routes on the engine.
func (h *AuthHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/auth/:provider", h.Begin)
	engine.GET("/auth/:provider/callback", h.Callback)
}

// Begin runs the request phase and redirects the user agent to the
// provider's authorization endpoint.
func (h *AuthHandler) Begin(c *gin.Context) {
	provider := c.Param("provider")

	strategy, ok := h.resolveStrategy(provider)
	if !ok {
		RespondWithError(c, apperrors.NotFound("strategy", provider))
		return
	}

	state, err := oidc.GenerateState()
	if err != nil {
		RespondWithError(c, apperrors.Internal(err))
		return
	}
	c.SetCookie(stateCookie, state, 600, "/auth", "", c.Request.TLS != nil, true)

	session := auth.NewSession(provider, nil, auth.Options{
		RedirectURL: h.callbackURL(c, provider),
		State:       state,
	})
	strategy.RequestPhase(c.Request.Context(), session)

	if session.Failed() {
		h.log.Warn("Request phase failed", map[string]interface{}{
			logger.FieldProvider: provider,
			"failures":           session.Failures(),
		})
		RespondWithError(c, apperrors.AuthenticationFailed(provider, session.Failures()))
		return
	}

	c.Redirect(http.StatusFound, session.RedirectURL)
}

// Callback runs the callback phase against the provider callback and
// responds with the resulting Identity.
func (h *AuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	strategy, ok := h.resolveStrategy(provider)
	if !ok {
		RespondWithError(c, apperrors.NotFound("strategy", provider))
		return
	}

	session := auth.NewSession(provider, queryParams(c), auth.Options{
		RedirectURL: h.callbackURL(c, provider),
	})

	expected, err := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/auth", "", c.Request.TLS != nil, true)
	if err != nil || expected == "" || expected != c.Query("state") {
		session.Fail(auth.Failure{
			Code:    "state_mismatch",
			Message: "State parameter does not match the value issued at the request phase",
		})
	} else {
		strategy.CallbackPhase(c.Request.Context(), session)
	}

	if session.Failed() {
		h.log.Warn("Callback phase failed", map[string]interface{}{
			logger.FieldProvider: provider,
			"failures":           session.Failures(),
		})
		strategy.Cleanup(session)
		RespondWithError(c, apperrors.AuthenticationFailed(provider, session.Failures()))
		return
	}

	identity := auth.Identity{
		UID:         strategy.UID(session),
		Provider:    provider,
		Info:        strategy.Info(session),
		Credentials: strategy.Credentials(session),
		Extra:       strategy.Extra(session),
	}
	strategy.Cleanup(session)

	h.log.Info("Authentication completed", map[string]interface{}{
		logger.FieldProvider: provider,
		"uid":                identity.UID,
	})
	RespondOK(c, identity)
}

// resolveStrategy prefers a strategy registered under the provider key
// and falls back to the registry default.
func (h *AuthHandler) resolveStrategy(provider string) (auth.Strategy, bool) {
	if s, ok := h.registry.Get(provider); ok {
		return s, true
	}
	return h.registry.Default()
}

// callbackURL reconstructs the absolute callback URL for the provider
// from the incoming request.
func (h *AuthHandler) callbackURL(c *gin.Context, provider string) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/auth/%s/callback", scheme, c.Request.Host, provider)
}

func queryParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
