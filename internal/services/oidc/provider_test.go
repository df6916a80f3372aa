package oidc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProvider_GetLoginConfig_Discovery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"authorization_endpoint": "%s/custom/authorize",
			"token_endpoint": "%s/custom/token",
			"jwks_uri": "%s/custom/jwks"
		}`, "https://idp.example.com", "https://idp.example.com", "https://idp.example.com")
	}))
	defer server.Close()

	provider := NewProvider(server.URL, "client-123", "")
	login := provider.GetLoginConfig(context.Background(), "http://localhost:3000/callback")

	if login.AuthorizationEndpoint != "https://idp.example.com/custom/authorize" {
		t.Errorf("AuthorizationEndpoint = %s, want discovered endpoint", login.AuthorizationEndpoint)
	}
	if login.TokenEndpoint != "https://idp.example.com/custom/token" {
		t.Errorf("TokenEndpoint = %s, want discovered endpoint", login.TokenEndpoint)
	}
	if login.ClientID != "client-123" {
		t.Errorf("ClientID = %s, want client-123", login.ClientID)
	}
	if got := provider.JWKSURL(context.Background()); got != "https://idp.example.com/custom/jwks" {
		t.Errorf("JWKSURL = %s, want discovered endpoint", got)
	}
}

func TestProvider_GetLoginConfig_Fallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	provider := NewProvider(server.URL+"/", "client-123", "")
	login := provider.GetLoginConfig(context.Background(), "http://localhost:3000/callback")

	if login.AuthorizationEndpoint != server.URL+"/oauth2/authorize" {
		t.Errorf("AuthorizationEndpoint = %s, want conventional fallback", login.AuthorizationEndpoint)
	}
	if login.TokenEndpoint != server.URL+"/oauth2/token" {
		t.Errorf("TokenEndpoint = %s, want conventional fallback", login.TokenEndpoint)
	}
	if got := provider.JWKSURL(context.Background()); got != server.URL+"/.well-known/jwks.json" {
		t.Errorf("JWKSURL = %s, want conventional fallback", got)
	}
}

func TestProvider_Validate(t *testing.T) {
	t.Parallel()

	if err := NewProvider("", "client", "").Validate(); err == nil {
		t.Error("Expected error for empty issuer")
	}
	if err := NewProvider("https://idp.example.com", "client", "").Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
