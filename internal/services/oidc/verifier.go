package oidc

import (
	"context"
	"fmt"

	"github.com/echotask/echotask/internal/models"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier verifies JWT tokens against the configured issuer
type Verifier struct {
	jwksManager *JWKSManager
	provider    *Provider
}

// NewVerifier creates a new JWT verifier
func NewVerifier(jwksManager *JWKSManager, provider *Provider) *Verifier {
	return &Verifier{
		jwksManager: jwksManager,
		provider:    provider,
	}
}

// Verify verifies a JWT token and extracts claims
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	keys, err := v.jwksManager.Get(ctx, v.provider.JWKSURL(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	// Parse and verify signature plus standard time-based claims
	token, err := jwt.Parse([]byte(tokenString), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	// Verify issuer
	iss, ok := token.Get("iss")
	if !ok {
		return nil, fmt.Errorf("token missing issuer claim")
	}
	if issStr, ok := iss.(string); !ok || issStr != v.provider.Issuer() {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %v", v.provider.Issuer(), iss)
	}

	claims := &models.JWTClaims{}

	if sub, ok := token.Get("sub"); ok {
		if subStr, ok := sub.(string); ok {
			claims.Sub = subStr
		}
	}

	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}

	if name, ok := token.Get("name"); ok {
		if nameStr, ok := name.(string); ok {
			claims.Name = nameStr
		}
	}

	if exp, ok := token.Get("exp"); ok {
		if expFloat, ok := exp.(float64); ok {
			claims.Exp = int64(expFloat)
		}
	}

	if iat, ok := token.Get("iat"); ok {
		if iatFloat, ok := iat.(float64); ok {
			claims.Iat = int64(iatFloat)
		}
	}

	if issVal, ok := token.Get("iss"); ok {
		if issStr, ok := issVal.(string); ok {
			claims.Iss = issStr
		}
	}

	if aud, ok := token.Get("aud"); ok {
		if audStr, ok := aud.(string); ok {
			claims.Aud = audStr
		} else if audArr, ok := aud.([]any); ok && len(audArr) > 0 {
			if audStr, ok := audArr[0].(string); ok {
				claims.Aud = audStr
			}
		}
	}

	// Verify audience when one is configured. Some providers put the client
	// ID in client_id instead of aud, accept either.
	if expected := v.provider.Audience(); expected != "" {
		if claims.Aud == expected {
			return claims, nil
		}
		if clientID, ok := token.Get("client_id"); ok {
			if clientIDStr, ok := clientID.(string); ok && clientIDStr == expected {
				return claims, nil
			}
		}
		return nil, fmt.Errorf("token audience mismatch: expected %s", expected)
	}

	return claims, nil
}
