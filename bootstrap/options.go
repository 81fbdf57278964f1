package bootstrap

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/authkit/auth/oidc"
	"github.com/kbukum/authkit/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	verifier        oidc.Verifier
	keyfunc         jwt.Keyfunc
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, the global logger is
// initialized from the settings' Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithVerifier sets the ID token verifier. Takes precedence over
// WithKeyfunc.
func WithVerifier(v oidc.Verifier) Option {
	return func(o *appOptions) { o.verifier = v }
}

// WithKeyfunc builds the default verifier from JWKS key material.
func WithKeyfunc(kf jwt.Keyfunc) Option {
	return func(o *appOptions) { o.keyfunc = kf }
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}
