package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Provider holds the OIDC issuer configuration and resolves endpoints from the
// issuer's discovery document. Discovery results are cached for the process
// lifetime since the issuer does not change at runtime.
type Provider struct {
	issuer   string
	clientID string
	audience string

	mu        sync.Mutex
	discovery *discoveryDocument
}

type discoveryDocument struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// NewProvider creates a provider for the given issuer. Audience is optional;
// when set, token verification requires it.
func NewProvider(issuer, clientID, audience string) *Provider {
	return &Provider{
		issuer:   strings.TrimRight(issuer, "/"),
		clientID: clientID,
		audience: audience,
	}
}

// Issuer returns the configured issuer URL
func (p *Provider) Issuer() string { return p.issuer }

// Audience returns the expected token audience, or empty if not enforced
func (p *Provider) Audience() string { return p.audience }

// JWKSURL resolves the issuer's JWKS endpoint, falling back to the
// conventional path when discovery is unavailable
func (p *Provider) JWKSURL(ctx context.Context) string {
	if doc := p.discover(ctx); doc != nil && doc.JWKSURI != "" {
		return doc.JWKSURI
	}
	return p.issuer + "/.well-known/jwks.json"
}

// GetLoginConfig returns the configuration needed for frontend OIDC login
func (p *Provider) GetLoginConfig(ctx context.Context, redirectURI string) *LoginConfig {
	authEndpoint := p.issuer + "/oauth2/authorize"
	tokenEndpoint := p.issuer + "/oauth2/token"

	if doc := p.discover(ctx); doc != nil {
		if doc.AuthorizationEndpoint != "" {
			authEndpoint = doc.AuthorizationEndpoint
		}
		if doc.TokenEndpoint != "" {
			tokenEndpoint = doc.TokenEndpoint
		}
	}

	return &LoginConfig{
		AuthorizationEndpoint: authEndpoint,
		TokenEndpoint:         tokenEndpoint,
		ClientID:              p.clientID,
		RedirectURI:           redirectURI,
		Scope:                 "openid email profile",
	}
}

// discover fetches and caches the issuer's discovery document. Returns nil on
// failure so callers fall back to conventional endpoint paths.
func (p *Provider) discover(ctx context.Context) *discoveryDocument {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.discovery != nil {
		return p.discovery
	}

	discoveryURL := p.issuer + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return nil
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var doc discoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil
	}

	p.discovery = &doc
	return p.discovery
}

// LoginConfig contains OIDC login configuration for frontend
type LoginConfig struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	ClientID              string `json:"client_id"`
	RedirectURI           string `json:"redirect_uri"`
	Scope                 string `json:"scope"`
}

// Validate checks the provider has enough configuration to verify tokens
func (p *Provider) Validate() error {
	if p.issuer == "" {
		return fmt.Errorf("OIDC issuer is required")
	}
	return nil
}
