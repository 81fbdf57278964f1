package oidc

import (
	"testing"
	"time"

	"github.com/kbukum/authkit/util"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{Issuer: "https://accounts.example.com", ClientID: "c1"}
	cfg.ApplyDefaults()

	if !util.Deref(cfg.FetchUserInfo) {
		t.Error("fetch_userinfo must default to true")
	}
	if cfg.UIDField != "sub" {
		t.Errorf("expected uid_field 'sub', got %q", cfg.UIDField)
	}
	if cfg.UserinfoUIDField != "sub" {
		t.Errorf("expected userinfo_uid_field 'sub', got %q", cfg.UserinfoUIDField)
	}
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != "openid" {
		t.Errorf("expected default scopes [openid], got %v", cfg.Scopes)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("expected 10s default timeout, got %v", cfg.HTTPTimeout)
	}
}

func TestConfigApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Issuer:           "https://accounts.example.com",
		ClientID:         "c1",
		FetchUserInfo:    util.Ptr(false),
		UIDField:         "uid",
		UserinfoUIDField: "upn",
		Scopes:           []string{"openid", "email"},
	}
	cfg.ApplyDefaults()

	if util.Deref(cfg.FetchUserInfo) {
		t.Error("explicit fetch_userinfo=false must survive defaulting")
	}
	if cfg.UIDField != "uid" || cfg.UserinfoUIDField != "upn" {
		t.Errorf("explicit uid fields changed: %q %q", cfg.UIDField, cfg.UserinfoUIDField)
	}
	if len(cfg.Scopes) != 2 {
		t.Errorf("explicit scopes changed: %v", cfg.Scopes)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Issuer: "https://accounts.example.com", ClientID: "c1"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg = Config{Issuer: "https://accounts.example.com"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing client_id")
	}

	cfg = Config{ClientID: "c1"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing issuer and endpoints")
	}

	cfg = Config{ClientID: "c1", AuthorizationEndpoint: "https://idp.example.com/authorize"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("explicit endpoints should stand in for issuer, got %v", err)
	}
}

func TestStaticConfigStore(t *testing.T) {
	store := StaticConfigStore{"google": {ClientID: "c1"}}
	if _, ok := store.Provider("google"); !ok {
		t.Error("expected google to resolve")
	}
	if _, ok := store.Provider("missing"); ok {
		t.Error("expected missing provider to not resolve")
	}
}

func TestResolveOptions_RedirectOverride(t *testing.T) {
	cfg := Config{ClientID: "c1", RedirectURL: "https://app.example.com/override"}
	opts := resolveOptions("google", cfg, "https://app.example.com/auth/google/callback")
	if opts.RedirectURL != "https://app.example.com/override" {
		t.Errorf("config override must win, got %q", opts.RedirectURL)
	}

	cfg = Config{ClientID: "c1"}
	opts = resolveOptions("google", cfg, "https://app.example.com/auth/google/callback")
	if opts.RedirectURL != "https://app.example.com/auth/google/callback" {
		t.Errorf("computed callback must be used without override, got %q", opts.RedirectURL)
	}
}

func TestResolveOptions_CarriesDefaults(t *testing.T) {
	opts := resolveOptions("google", Config{ClientID: "c1"}, "")
	if opts.Provider != "google" {
		t.Errorf("expected provider key carried, got %q", opts.Provider)
	}
	if !opts.FetchUserInfo || opts.UIDField != "sub" || opts.UserinfoUIDField != "sub" {
		t.Errorf("defaults not applied: %+v", opts)
	}
}
