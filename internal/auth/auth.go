// Package auth resolves bearer access tokens to application sessions through
// the external authentication provider.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/supabase-community/gotrue-go"

	"github.com/ajbgithub/aivideos/models"
)

// ErrNoSession is returned when a token does not resolve to a usable identity.
// An identity without an email falls under this too: the application keys
// ownership and curation on email, so such identities are unauthenticated.
var ErrNoSession = errors.New("no usable session for token")

// SessionProvider is the authentication surface consumed by the middleware and
// the sign-out handler.
type SessionProvider interface {
	Session(ctx context.Context, accessToken string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type gotrueProvider struct {
	client gotrue.Client
}

// NewGotrueProvider returns a SessionProvider over the given GoTrue client.
func NewGotrueProvider(client gotrue.Client) SessionProvider {
	return &gotrueProvider{client: client}
}

func (p *gotrueProvider) Session(ctx context.Context, accessToken string) (*models.Session, error) {
	user, err := p.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, err
	}
	if user == nil || user.Email == "" {
		return nil, ErrNoSession
	}

	return &models.Session{
		Name:      displayName(user.UserMetadata, user.Email),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (p *gotrueProvider) SignOut(ctx context.Context, accessToken string) error {
	return p.client.WithToken(accessToken).Logout()
}

// displayName picks a human name from the provider's metadata, falling back to
// the email's local part.
func displayName(metadata map[string]interface{}, email string) string {
	for _, key := range []string{"full_name", "name"} {
		if value, ok := metadata[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
