package oidc

import "context"

// Client is the OIDC protocol collaborator. It performs the HTTP calls
// against the provider's endpoints and the cryptographic ID-token
// verification; the strategy pipeline only interprets the results.
type Client interface {
	// Exchange trades an authorization code for the provider's token map
	// (access_token, id_token, token_type, refresh_token, ...). The
	// redirectURI must repeat the redirect_uri of the authorization
	// request; token endpoints reject the exchange otherwise.
	Exchange(ctx context.Context, provider, code, redirectURI string) Result

	// VerifyIDToken validates the raw ID token and returns the verified
	// claims map.
	VerifyIDToken(ctx context.Context, provider, rawIDToken string) Result

	// DiscoveryDocument returns the provider's OpenID configuration.
	DiscoveryDocument(ctx context.Context, provider string) (*DiscoveryDocument, error)

	// UserInfo fetches the userinfo document using the access token as a
	// bearer credential.
	UserInfo(ctx context.Context, provider, accessToken string) (map[string]any, error)
}

// DiscoveryDocument is the subset of the OpenID configuration document
// this module consumes.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserInfoEndpoint      string `json:"userinfo_endpoint"`
	JWKSUri               string `json:"jwks_uri"`
}
