// Package auth verifies identity tokens presented by API clients.
package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
)

// Identity is the subset of token claims the application cares about.
type Identity struct {
	Subject string
	Name    string
	Email   string
}

// Verifier validates a raw identity token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// GoogleVerifier validates Google-issued ID tokens (Firebase auth tokens
// are Google ID tokens) against an OAuth client audience.
type GoogleVerifier struct {
	audience string
}

// NewGoogleVerifier creates a verifier for the given audience. The audience
// is the OAuth client ID the frontend uses to obtain tokens.
func NewGoogleVerifier(audience string) (*GoogleVerifier, error) {
	if audience == "" {
		return nil, fmt.Errorf("%w: auth audience", common.ErrMissingConfig)
	}
	return &GoogleVerifier{audience: audience}, nil
}

// Verify validates the token signature, expiry, and audience.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	identity := &Identity{Subject: payload.Subject}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if identity.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", common.ErrInvalidToken)
	}

	return identity, nil
}
