package oidc

import (
	"fmt"
	"time"

	"github.com/kbukum/authkit/util"
)

// Config holds the static configuration of one OIDC provider.
// Loadable from YAML/env via mapstructure tags. Immutable once loaded.
type Config struct {
	// Issuer is the provider's issuer URL (e.g. "https://accounts.google.com").
	// Used for discovery of the token and userinfo endpoints.
	Issuer string `yaml:"issuer" mapstructure:"issuer" validate:"omitempty,url"`

	// ClientID is the OAuth2 client ID.
	ClientID string `yaml:"client_id" mapstructure:"client_id" validate:"required"`

	// ClientSecret is the OAuth2 client secret.
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`

	// RedirectURL overrides the framework-computed callback URL when set.
	RedirectURL string `yaml:"redirect_url" mapstructure:"redirect_url" validate:"omitempty,url"`

	// Scopes are the OAuth2 scopes to request (default: ["openid"]).
	Scopes []string `yaml:"scopes" mapstructure:"scopes"`

	// FetchUserInfo controls whether the callback pipeline calls the
	// userinfo endpoint after verification. Default: true.
	FetchUserInfo *bool `yaml:"fetch_userinfo" mapstructure:"fetch_userinfo"`

	// UIDField is the claim holding the subject id when FetchUserInfo is
	// false. Default: "sub".
	UIDField string `yaml:"uid_field" mapstructure:"uid_field"`

	// UserinfoUIDField is the userinfo field holding the subject id when
	// FetchUserInfo is true. Default: "sub".
	UserinfoUIDField string `yaml:"userinfo_uid_field" mapstructure:"userinfo_uid_field"`

	// AuthorizationEndpoint overrides the discovered authorization endpoint.
	AuthorizationEndpoint string `yaml:"authorization_endpoint" mapstructure:"authorization_endpoint" validate:"omitempty,url"`

	// TokenEndpoint overrides the discovered token endpoint.
	TokenEndpoint string `yaml:"token_endpoint" mapstructure:"token_endpoint" validate:"omitempty,url"`

	// UserInfoEndpoint overrides the discovered userinfo endpoint.
	UserInfoEndpoint string `yaml:"userinfo_endpoint" mapstructure:"userinfo_endpoint" validate:"omitempty,url"`

	// HTTPTimeout is the timeout for token, discovery, and userinfo
	// requests (default: "10s").
	HTTPTimeout time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"openid"}
	}
	if c.FetchUserInfo == nil {
		c.FetchUserInfo = util.Ptr(true)
	}
	if c.UIDField == "" {
		c.UIDField = "sub"
	}
	if c.UserinfoUIDField == "" {
		c.UserinfoUIDField = "sub"
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 10 * time.Second
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Issuer == "" && c.AuthorizationEndpoint == "" {
		return fmt.Errorf("issuer is required when no explicit endpoints are set")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	return nil
}

// ConfigStore resolves a provider key to its static configuration.
// Implementations must be safe for concurrent reads; configurations are
// read-only after process initialization.
type ConfigStore interface {
	Provider(name string) (Config, bool)
}

// StaticConfigStore is a map-backed ConfigStore built once at startup.
type StaticConfigStore map[string]Config

// Provider implements ConfigStore.
func (s StaticConfigStore) Provider(name string) (Config, bool) {
	cfg, ok := s[name]
	return cfg, ok
}

// ResolvedOptions is the per-request merge of provider configuration and
// framework defaults. It is stored on the bundle so diagnostics can see
// exactly what the pipeline ran with.
type ResolvedOptions struct {
	Provider         string `json:"provider"`
	FetchUserInfo    bool   `json:"fetch_userinfo"`
	UIDField         string `json:"uid_field"`
	UserinfoUIDField string `json:"userinfo_uid_field"`
	RedirectURL      string `json:"redirect_url,omitempty"`
}

// resolveOptions merges defaults, provider configuration, and request
// options field by field.
func resolveOptions(provider string, cfg Config, redirectURL string) *ResolvedOptions {
	cfg.ApplyDefaults()
	if cfg.RedirectURL != "" {
		redirectURL = cfg.RedirectURL
	}
	return &ResolvedOptions{
		Provider:         provider,
		FetchUserInfo:    util.Deref(cfg.FetchUserInfo),
		UIDField:         cfg.UIDField,
		UserinfoUIDField: cfg.UserinfoUIDField,
		RedirectURL:      redirectURL,
	}
}

// asMap renders the options for the Extra passthrough.
func (o *ResolvedOptions) asMap() map[string]any {
	if o == nil {
		return nil
	}
	return map[string]any{
		"provider":           o.Provider,
		"fetch_userinfo":     o.FetchUserInfo,
		"uid_field":          o.UIDField,
		"userinfo_uid_field": o.UserinfoUIDField,
		"redirect_url":       o.RedirectURL,
	}
}
