package oidc

import (
	"context"

	"golang.org/x/oauth2"
)

// Client wraps OAuth2 client functionality for the code exchange flow
type Client struct {
	config *oauth2.Config
}

// NewClient creates a new OAuth2 client from the provider's login config
func NewClient(login *LoginConfig, clientSecret string) *Client {
	config := &oauth2.Config{
		ClientID:     login.ClientID,
		ClientSecret: clientSecret,
		RedirectURL:  login.RedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  login.AuthorizationEndpoint,
			TokenURL: login.TokenEndpoint,
		},
	}

	return &Client{config: config}
}

// ExchangeCode exchanges an authorization code for tokens
func (c *Client) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.config.Exchange(ctx, code)
}

// AuthCodeURL returns the authorization URL
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}
