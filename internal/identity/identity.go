package identity

import (
	"context"
	"errors"
)

// Identity is a verified caller. Email is the stable identifier used for
// profile lookups.
type Identity struct {
	Email string
}

// Provider is the narrow surface of the external identity provider. A nil
// provider on the resolver means tokens are verified locally.
type Provider interface {
	// LookupEmail exchanges a raw access token for the account email.
	LookupEmail(ctx context.Context, accessToken string) (string, error)
	// CreateAccount registers an account for email. Implementations return
	// ErrAccountExists when the account is already present.
	CreateAccount(ctx context.Context, email string) error
}

var ErrAccountExists = errors.New("identity: account already exists")
