package oidc

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/kbukum/authkit/auth"
	"github.com/kbukum/authkit/util"
)

// fakeClient scripts the protocol collaborator and counts invocations so
// tests can assert the pipeline halted where it should.
type fakeClient struct {
	exchange    Result
	verify      Result
	userInfo    map[string]any
	userInfoErr error
	doc         *DiscoveryDocument
	docErr      error

	exchangeCalls    int
	verifyCalls      int
	userInfoCalls    int
	exchangeRedirect string
}

func (f *fakeClient) Exchange(_ context.Context, _, _, redirectURI string) Result {
	f.exchangeCalls++
	f.exchangeRedirect = redirectURI
	return f.exchange
}

func (f *fakeClient) VerifyIDToken(_ context.Context, _, _ string) Result {
	f.verifyCalls++
	return f.verify
}

func (f *fakeClient) DiscoveryDocument(_ context.Context, _ string) (*DiscoveryDocument, error) {
	return f.doc, f.docErr
}

func (f *fakeClient) UserInfo(_ context.Context, _, _ string) (map[string]any, error) {
	f.userInfoCalls++
	return f.userInfo, f.userInfoErr
}

func testStore() StaticConfigStore {
	return StaticConfigStore{
		"google": {
			Issuer:                "https://accounts.example.com",
			ClientID:              "client-1",
			ClientSecret:          "secret",
			AuthorizationEndpoint: "https://accounts.example.com/authorize",
		},
	}
}

func newSession(provider string, params map[string]string, opts auth.Options) *auth.Session {
	return auth.NewSession(provider, params, opts)
}

// --- Request phase ---

func TestRequestPhase_UnknownProvider(t *testing.T) {
	st := New(testStore(), &fakeClient{})
	s := newSession("missing", nil, auth.Options{})

	st.RequestPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected exactly one failure, got %d", len(failures))
	}
	if failures[0].Code != FailureConfiguration {
		t.Errorf("expected configuration_error, got %q", failures[0].Code)
	}
	if failures[0].Message != "Authorization URL could not be constructed" {
		t.Errorf("unexpected message %q", failures[0].Message)
	}
	if s.RedirectURL != "" {
		t.Errorf("expected no redirect URL, got %q", s.RedirectURL)
	}
}

func TestRequestPhase_StateAppended(t *testing.T) {
	st := New(testStore(), &fakeClient{})
	s := newSession("google", nil, auth.Options{
		RedirectURL: "https://app.example.com/auth/google/callback",
		State:       "tok-123",
	})

	st.RequestPhase(context.Background(), s)

	if s.Failed() {
		t.Fatalf("unexpected failures: %v", s.Failures())
	}
	u, err := url.Parse(s.RedirectURL)
	if err != nil {
		t.Fatalf("redirect URL does not parse: %v", err)
	}
	q := u.Query()
	if q.Get("state") != "tok-123" {
		t.Errorf("expected state=tok-123, got %q", q.Get("state"))
	}
	if q.Get("response_type") != "code" {
		t.Errorf("expected response_type=code, got %q", q.Get("response_type"))
	}
	if q.Get("client_id") != "client-1" {
		t.Errorf("expected client_id, got %q", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "https://app.example.com/auth/google/callback" {
		t.Errorf("unexpected redirect_uri %q", q.Get("redirect_uri"))
	}
}

func TestRequestPhase_NoStateMeansNoParameter(t *testing.T) {
	st := New(testStore(), &fakeClient{})
	s := newSession("google", nil, auth.Options{RedirectURL: "https://app.example.com/cb"})

	st.RequestPhase(context.Background(), s)

	if s.Failed() {
		t.Fatalf("unexpected failures: %v", s.Failures())
	}
	u, _ := url.Parse(s.RedirectURL)
	if _, present := u.Query()["state"]; present {
		t.Error("state key must be entirely absent when no token was supplied")
	}
}

func TestRequestPhase_RedirectOverrideWins(t *testing.T) {
	store := testStore()
	cfg := store["google"]
	cfg.RedirectURL = "https://app.example.com/custom"
	store["google"] = cfg

	st := New(store, &fakeClient{})
	s := newSession("google", nil, auth.Options{RedirectURL: "https://app.example.com/computed"})

	st.RequestPhase(context.Background(), s)

	u, _ := url.Parse(s.RedirectURL)
	if u.Query().Get("redirect_uri") != "https://app.example.com/custom" {
		t.Errorf("expected configured override, got %q", u.Query().Get("redirect_uri"))
	}
}

func TestRequestPhase_EndpointFromDiscovery(t *testing.T) {
	store := StaticConfigStore{
		"google": {Issuer: "https://accounts.example.com", ClientID: "client-1"},
	}
	client := &fakeClient{doc: &DiscoveryDocument{
		AuthorizationEndpoint: "https://accounts.example.com/o/authorize",
	}}
	st := New(store, client)
	s := newSession("google", nil, auth.Options{RedirectURL: "https://app.example.com/cb"})

	st.RequestPhase(context.Background(), s)

	if s.Failed() {
		t.Fatalf("unexpected failures: %v", s.Failures())
	}
	if !strings.HasPrefix(s.RedirectURL, "https://accounts.example.com/o/authorize?") {
		t.Errorf("expected discovered endpoint, got %q", s.RedirectURL)
	}
}

// --- Callback phase ---

func TestCallbackPhase_MissingCode(t *testing.T) {
	client := &fakeClient{}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected exactly one failure, got %v", failures)
	}
	if failures[0].Code != FailureMissingCode {
		t.Errorf("expected missing_code, got %q", failures[0].Code)
	}
	if failures[0].Message != "Query string does not contain field 'code'" {
		t.Errorf("unexpected message %q", failures[0].Message)
	}

	b := bundleFrom(s)
	if b == nil {
		t.Fatal("expected bundle to be attached")
	}
	if b.Tokens != nil || b.Claims != nil {
		t.Error("tokens and claims must remain unset")
	}
	if client.exchangeCalls != 0 {
		t.Error("exchange must not be attempted without a code")
	}
}

func TestCallbackPhase_ExchangeGenericError(t *testing.T) {
	client := &fakeClient{exchange: Errorf("token endpoint unreachable")}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 || failures[0].Code != "error" {
		t.Fatalf("expected [(error, ...)], got %v", failures)
	}
	if failures[0].Message != "token endpoint unreachable" {
		t.Errorf("unexpected message %q", failures[0].Message)
	}
	if client.verifyCalls != 0 {
		t.Error("verifier must not be invoked after a failed exchange")
	}
	if b := bundleFrom(s); b.Opts == nil {
		t.Error("opts must be set even when the exchange fails")
	}
}

func TestCallbackPhase_ExchangeTypedError(t *testing.T) {
	client := &fakeClient{exchange: TypedError("invalid_grant", "code expired")}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %v", failures)
	}
	if failures[0].Code != "invalid_grant" || failures[0].Message != "code expired" {
		t.Errorf("provider code not preserved: %v", failures[0])
	}
}

func TestCallbackPhase_ExchangeUnknownShape(t *testing.T) {
	client := &fakeClient{exchange: Unknown("<html>proxy error</html>")}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 || failures[0].Code != FailureUnknownResponse {
		t.Fatalf("expected unknown_error, got %v", failures)
	}
	if !strings.Contains(failures[0].Message, "proxy error") {
		t.Errorf("original payload must be carried, got %q", failures[0].Message)
	}
}

func TestCallbackPhase_VerificationFailureSkipsUserInfo(t *testing.T) {
	client := &fakeClient{
		exchange: OK(map[string]any{"access_token": "1234", "id_token": "4321"}),
		verify:   Errorf("signature mismatch"),
	}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 || failures[0].Code != "error" {
		t.Fatalf("expected [(error, ...)], got %v", failures)
	}
	if client.userInfoCalls != 0 {
		t.Error("userinfo must not be fetched after failed verification")
	}
	b := bundleFrom(s)
	if b.Tokens == nil {
		t.Error("tokens computed before the halt must be kept")
	}
	if b.Claims != nil {
		t.Error("claims must remain unset")
	}
}

func TestCallbackPhase_VerificationTypedError(t *testing.T) {
	client := &fakeClient{
		exchange: OK(map[string]any{"access_token": "1234", "id_token": "4321"}),
		verify:   TypedError("invalid_token", "audience mismatch"),
	}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 || failures[0].Code != "invalid_token" {
		t.Fatalf("expected [(invalid_token, ...)], got %v", failures)
	}
}

func TestCallbackPhase_HappyPathWithoutUserInfo(t *testing.T) {
	store := testStore()
	cfg := store["google"]
	cfg.FetchUserInfo = util.Ptr(false)
	cfg.UIDField = "uid"
	store["google"] = cfg

	client := &fakeClient{
		exchange: OK(map[string]any{"access_token": "1234", "id_token": "4321"}),
		verify:   OK(map[string]any{"uid": "1234"}),
	}
	st := New(store, client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	if s.Failed() {
		t.Fatalf("unexpected failures: %v", s.Failures())
	}
	if client.userInfoCalls != 0 {
		t.Error("userinfo must not be fetched when disabled")
	}
	if got := st.UID(s); got != "1234" {
		t.Errorf("expected uid '1234', got %q", got)
	}
	if got := st.Credentials(s).Token; got != "1234" {
		t.Errorf("expected token '1234', got %q", got)
	}
}

func TestCallbackPhase_HappyPathWithUserInfo(t *testing.T) {
	client := &fakeClient{
		exchange: OK(map[string]any{"access_token": "1234", "id_token": "4321"}),
		verify:   OK(map[string]any{"sub": "subj-1"}),
		userInfo: map[string]any{"sub": "subj-1", "name": "Jane Doe"},
	}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	if s.Failed() {
		t.Fatalf("unexpected failures: %v", s.Failures())
	}
	if client.userInfoCalls != 1 {
		t.Errorf("expected one userinfo fetch, got %d", client.userInfoCalls)
	}
	b := bundleFrom(s)
	if b.UserInfo == nil || b.UserInfo["name"] != "Jane Doe" {
		t.Errorf("userinfo not stored: %v", b.UserInfo)
	}
}

func TestCallbackPhase_ExchangeEchoesRedirectURI(t *testing.T) {
	client := &fakeClient{
		exchange: OK(map[string]any{"access_token": "1234", "id_token": "4321"}),
		verify:   OK(map[string]any{"sub": "subj-1"}),
		userInfo: map[string]any{"sub": "subj-1"},
	}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{
		RedirectURL: "https://app.example.com/auth/google/callback",
	})

	st.RequestPhase(context.Background(), s)
	u, _ := url.Parse(s.RedirectURL)
	authorized := u.Query().Get("redirect_uri")
	if authorized != "https://app.example.com/auth/google/callback" {
		t.Fatalf("unexpected authorization redirect_uri %q", authorized)
	}

	st.CallbackPhase(context.Background(), s)
	if s.Failed() {
		t.Fatalf("unexpected failures: %v", s.Failures())
	}
	if client.exchangeRedirect != authorized {
		t.Errorf("token exchange must repeat the authorization redirect_uri, got %q", client.exchangeRedirect)
	}
}

func TestCallbackPhase_ExchangeUsesConfiguredOverride(t *testing.T) {
	store := testStore()
	cfg := store["google"]
	cfg.RedirectURL = "https://app.example.com/custom"
	store["google"] = cfg

	client := &fakeClient{
		exchange: OK(map[string]any{"access_token": "1234", "id_token": "4321"}),
		verify:   OK(map[string]any{"sub": "subj-1"}),
		userInfo: map[string]any{"sub": "subj-1"},
	}
	st := New(store, client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{
		RedirectURL: "https://app.example.com/computed",
	})

	st.CallbackPhase(context.Background(), s)
	if s.Failed() {
		t.Fatalf("unexpected failures: %v", s.Failures())
	}
	if client.exchangeRedirect != "https://app.example.com/custom" {
		t.Errorf("configured override must reach the exchange, got %q", client.exchangeRedirect)
	}
}

func TestCallbackPhase_UserInfoFailureRecorded(t *testing.T) {
	client := &fakeClient{
		exchange:    OK(map[string]any{"access_token": "1234", "id_token": "4321"}),
		verify:      OK(map[string]any{"sub": "subj-1"}),
		userInfoErr: context.DeadlineExceeded,
	}
	st := New(testStore(), client)
	s := newSession("google", map[string]string{"code": "abc"}, auth.Options{})

	st.CallbackPhase(context.Background(), s)

	failures := s.Failures()
	if len(failures) != 1 || failures[0].Code != FailureUserInfo {
		t.Fatalf("expected userinfo_error, got %v", failures)
	}
}

func TestFailureFromResult(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		code    string
		message string
	}{
		{"generic", Errorf("boom"), "error", "boom"},
		{"typed", TypedError("access_denied", "user declined"), "access_denied", "user declined"},
		{"unknown", Unknown(map[string]any{"weird": true}), FailureUnknownResponse, "map[weird:true]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := failureFromResult(tt.result)
			if f.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, f.Code)
			}
			if f.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, f.Message)
			}
		})
	}
}
