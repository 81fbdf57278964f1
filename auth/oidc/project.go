package oidc

import (
	"strconv"

	"github.com/kbukum/authkit/auth"
)

// Projections are pure reads over the session bundle; none of them
// mutate it except Cleanup.

// UID implements auth.Strategy. When the pipeline fetched userinfo the
// subject comes from the configured userinfo field, otherwise from the
// configured claim. A missing field yields "".
func (st *Strategy) UID(s *auth.Session) string {
	b := bundleFrom(s)
	if b == nil || b.Opts == nil {
		return ""
	}
	if b.Opts.FetchUserInfo {
		return stringField(b.UserInfo, b.Opts.UserinfoUIDField)
	}
	return stringField(b.Claims, b.Opts.UIDField)
}

// Info implements auth.Strategy. Recognized userinfo fields map onto the
// profile record; everything else is dropped. An absent userinfo document
// yields the zero Info.
func (st *Strategy) Info(s *auth.Session) auth.Info {
	b := bundleFrom(s)
	if b == nil || b.UserInfo == nil {
		return auth.Info{}
	}
	ui := b.UserInfo

	nickname := stringField(ui, "preferred_username")
	if nickname == "" {
		nickname = stringField(ui, "nickname")
	}

	return auth.Info{
		Name:      stringField(ui, "name"),
		Email:     stringField(ui, "email"),
		Nickname:  nickname,
		FirstName: stringField(ui, "given_name"),
		LastName:  stringField(ui, "family_name"),
		Phone:     stringField(ui, "phone_number"),
		Location:  stringField(ui, "address"),
		Image:     stringField(ui, "picture"),
	}
}

// Credentials implements auth.Strategy. The expiry is taken from the
// verified "exp" claim and accepted in both numeric and numeric-string
// form; a value that parses sets the Expires flag.
func (st *Strategy) Credentials(s *auth.Session) auth.Credentials {
	b := bundleFrom(s)
	if b == nil {
		return auth.Credentials{}
	}

	creds := auth.Credentials{
		Token:        stringField(b.Tokens, "access_token"),
		TokenType:    stringField(b.Tokens, "token_type"),
		RefreshToken: stringField(b.Tokens, "refresh_token"),
		Other: auth.CredentialsOther{
			UserInfo: b.UserInfo,
		},
	}
	if b.Opts != nil {
		creds.Other.Provider = b.Opts.Provider
	}

	if exp, ok := coerceExp(b.Claims["exp"]); ok {
		creds.ExpiresAt = exp
		creds.Expires = true
	}
	return creds
}

// Extra implements auth.Strategy: the verbatim {tokens, claims, opts}
// passthrough for diagnostics.
func (st *Strategy) Extra(s *auth.Session) auth.Extra {
	b := bundleFrom(s)
	if b == nil {
		return auth.Extra{}
	}
	return auth.Extra{
		Raw: map[string]any{
			"tokens": b.Tokens,
			"claims": b.Claims,
			"opts":   b.Opts.asMap(),
		},
	}
}

// Cleanup implements auth.Strategy. Idempotent: a second call on an
// already-cleaned session is a no-op.
func (st *Strategy) Cleanup(s *auth.Session) {
	b := bundleFrom(s)
	if b == nil {
		return
	}
	b.Opts = nil
	b.Tokens = nil
	b.Claims = nil
	b.UserInfo = nil
}

// stringField returns m[key] when it is a string, else "".
func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

// coerceExp normalizes the "exp" claim to unix seconds. JSON numbers,
// integer types, and plain decimal strings are accepted; anything else is
// treated as absent.
func coerceExp(v any) (int64, bool) {
	switch exp := v.(type) {
	case float64:
		return int64(exp), true
	case int64:
		return exp, true
	case int:
		return int64(exp), true
	case string:
		n, err := strconv.ParseInt(exp, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
