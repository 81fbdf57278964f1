package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/authkit/logger"
)

// HTTPClient is the default Client implementation. It resolves endpoints
// through provider configuration or OIDC discovery, exchanges codes at
// the token endpoint, and fetches userinfo with a bearer credential.
// ID-token verification is delegated to the injected Verifier.
//
// Discovery documents are cached per provider for the process lifetime;
// provider metadata does not change underneath a registered client.
type HTTPClient struct {
	store    ConfigStore
	verifier Verifier
	http     *http.Client
	log      *logger.Logger

	mu    sync.RWMutex
	disco map[string]*DiscoveryDocument
}

// NewHTTPClient creates a protocol client over the given configuration
// store and verifier. A nil httpClient falls back to a 10s-timeout default.
func NewHTTPClient(store ConfigStore, verifier Verifier, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		store:    store,
		verifier: verifier,
		http:     httpClient,
		log:      logger.WithComponent("oidc.client"),
		disco:    make(map[string]*DiscoveryDocument),
	}
}

// Exchange implements Client. Transport failures produce a generic error
// result; OAuth error bodies preserve the provider's error code; payloads
// matching no known shape are returned as ResultUnknown.
func (c *HTTPClient) Exchange(ctx context.Context, provider, code, redirectURI string) Result {
	cfg, ok := c.store.Provider(provider)
	if !ok {
		return Errorf("unknown provider %q", provider)
	}
	cfg.ApplyDefaults()

	endpoint := cfg.TokenEndpoint
	if endpoint == "" {
		doc, err := c.DiscoveryDocument(ctx, provider)
		if err != nil {
			return Errorf("token endpoint discovery failed: %v", err)
		}
		endpoint = doc.TokenEndpoint
	}
	if endpoint == "" {
		return Errorf("no token endpoint for provider %q", provider)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", cfg.ClientID)
	if cfg.ClientSecret != "" {
		form.Set("client_secret", cfg.ClientSecret)
	}
	if redirectURI != "" {
		form.Set("redirect_uri", redirectURI)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Errorf("build token request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Errorf("token endpoint request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Errorf("read token response: %v", err)
	}

	return interpretTokenResponse(resp.StatusCode, body)
}

// interpretTokenResponse maps a token-endpoint response onto the result
// union. Kept separate so the shape handling is testable without HTTP.
func interpretTokenResponse(status int, body []byte) Result {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Unknown(string(body))
	}

	if errCode, ok := payload["error"].(string); ok {
		msg, _ := payload["error_description"].(string)
		if msg == "" {
			msg = errCode
		}
		return TypedError(errCode, msg)
	}

	if status != http.StatusOK {
		return Unknown(payload)
	}
	if _, ok := payload["access_token"]; !ok {
		return Unknown(payload)
	}
	return OK(payload)
}

// VerifyIDToken implements Client by delegating to the Verifier.
func (c *HTTPClient) VerifyIDToken(ctx context.Context, provider, rawIDToken string) Result {
	cfg, ok := c.store.Provider(provider)
	if !ok {
		return Errorf("unknown provider %q", provider)
	}
	cfg.ApplyDefaults()

	claims, err := c.verifier.Verify(ctx, cfg, rawIDToken)
	if err != nil {
		return Errorf("%v", err)
	}
	return OK(claims)
}

// DiscoveryDocument implements Client with per-provider caching.
func (c *HTTPClient) DiscoveryDocument(ctx context.Context, provider string) (*DiscoveryDocument, error) {
	c.mu.RLock()
	doc, ok := c.disco[provider]
	c.mu.RUnlock()
	if ok {
		return doc, nil
	}

	cfg, ok := c.store.Provider(provider)
	if !ok {
		return nil, fmt.Errorf("oidc: unknown provider %q", provider)
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("oidc: provider %q has no issuer for discovery", provider)
	}

	wellKnown := strings.TrimRight(cfg.Issuer, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wellKnown, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oidc: discovery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oidc: discovery returned status %d", resp.StatusCode)
	}

	doc = &DiscoveryDocument{}
	if err := json.NewDecoder(resp.Body).Decode(doc); err != nil {
		return nil, fmt.Errorf("oidc: decode discovery document: %w", err)
	}

	c.mu.Lock()
	c.disco[provider] = doc
	c.mu.Unlock()

	c.log.Debug("discovery document cached", logger.Fields(
		logger.FieldProvider, provider,
		"token_endpoint", doc.TokenEndpoint,
	))
	return doc, nil
}

// UserInfo implements Client.
func (c *HTTPClient) UserInfo(ctx context.Context, provider, accessToken string) (map[string]any, error) {
	cfg, ok := c.store.Provider(provider)
	if !ok {
		return nil, fmt.Errorf("oidc: unknown provider %q", provider)
	}

	endpoint := cfg.UserInfoEndpoint
	if endpoint == "" {
		doc, err := c.DiscoveryDocument(ctx, provider)
		if err != nil {
			return nil, err
		}
		endpoint = doc.UserInfoEndpoint
	}
	if endpoint == "" {
		return nil, fmt.Errorf("oidc: no userinfo endpoint for provider %q", provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oidc: userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oidc: userinfo returned status %d", resp.StatusCode)
	}

	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("oidc: decode userinfo: %w", err)
	}
	return info, nil
}
