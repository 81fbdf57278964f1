package oidc

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a raw ID token for a provider and returns the
// verified claims. Signature checking, key rotation, and JWKS retrieval
// live behind this interface; the pipeline never looks inside.
type Verifier interface {
	Verify(ctx context.Context, cfg Config, rawIDToken string) (map[string]any, error)
}

// VerifierFunc adapts an ordinary function to the Verifier interface.
type VerifierFunc func(ctx context.Context, cfg Config, rawIDToken string) (map[string]any, error)

// Verify implements Verifier.
func (f VerifierFunc) Verify(ctx context.Context, cfg Config, rawIDToken string) (map[string]any, error) {
	return f(ctx, cfg, rawIDToken)
}

// KeyfuncVerifier validates ID tokens with the jwt parser against key
// material supplied by the embedder (typically a JWKS-backed keyfunc).
// It checks signature, issuer, audience, and expiry.
type KeyfuncVerifier struct {
	keyfunc jwt.Keyfunc
	algs    []string
}

// NewKeyfuncVerifier creates a verifier using the given keyfunc.
// Allowed signing algorithms default to RS256.
func NewKeyfuncVerifier(keyfunc jwt.Keyfunc, algs ...string) (*KeyfuncVerifier, error) {
	if keyfunc == nil {
		return nil, errors.New("oidc: keyfunc is required")
	}
	if len(algs) == 0 {
		algs = []string{"RS256"}
	}
	return &KeyfuncVerifier{keyfunc: keyfunc, algs: algs}, nil
}

// Verify implements Verifier.
func (v *KeyfuncVerifier) Verify(_ context.Context, cfg Config, rawIDToken string) (map[string]any, error) {
	if rawIDToken == "" {
		return nil, errors.New("oidc: empty ID token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.algs),
		jwt.WithExpirationRequired(),
	}
	if cfg.ClientID != "" {
		opts = append(opts, jwt.WithAudience(cfg.ClientID))
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.NewParser(opts...).ParseWithClaims(rawIDToken, claims, v.keyfunc); err != nil {
		return nil, fmt.Errorf("oidc: verify ID token: %w", err)
	}

	return map[string]any(claims), nil
}
