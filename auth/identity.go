package auth

// Identity is the provider-agnostic record a completed authentication
// produces. It bundles the three independent projections plus the raw
// diagnostics passthrough.
type Identity struct {
	// UID is the stable subject identifier scoped to the provider.
	UID string `json:"uid"`

	// Provider is the provider key the identity was obtained from.
	Provider string `json:"provider"`

	Info        Info        `json:"info"`
	Credentials Credentials `json:"credentials"`
	Extra       Extra       `json:"extra,omitempty"`
}

// Info is the profile projection. Fields the source did not supply are
// left empty; unrecognized source fields are dropped.
type Info struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Credentials is the token projection.
type Credentials struct {
	// Token is the access token.
	Token string `json:"token,omitempty"`

	// TokenType is typically "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// RefreshToken is set only when the provider issued one.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the expiry as unix seconds; zero when unknown.
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// Expires reports whether an expiry is known.
	Expires bool `json:"expires"`

	Other CredentialsOther `json:"other"`
}

// CredentialsOther carries provider-specific extras of the credentials
// projection.
type CredentialsOther struct {
	Provider string         `json:"provider,omitempty"`
	UserInfo map[string]any `json:"user_info,omitempty"`
}

// Extra is the diagnostics passthrough. Raw is handed through verbatim
// from whatever the strategy accumulated; its keys are strategy-specific.
type Extra struct {
	Raw map[string]any `json:"raw,omitempty"`
}
