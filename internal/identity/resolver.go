package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"

	"github.com/intrale/platform-sub000/internal/fault"
)

const bearerPrefix = "Bearer "

type Config struct {
	// ClientID is the expected client-id claim of locally verified tokens.
	ClientID string
	// Issuer is the expected iss claim. Empty skips the check.
	Issuer string
	// Secret signs locally issued access tokens (HMAC).
	Secret string
}

// Resolver turns a bearer token into a verified identity. With a provider it
// delegates the lookup; otherwise it verifies the token signature and claims
// locally. Every failure, including provider transport errors, is reported
// as unauthorized so that provider internals never leak to the caller.
type Resolver struct {
	cfg      Config
	provider Provider
}

func NewResolver(cfg Config, provider Provider) *Resolver {
	return &Resolver{
		cfg:      cfg,
		provider: provider,
	}
}

func (r *Resolver) Resolve(ctx context.Context, authHeader string) (Identity, error) {
	header := strings.TrimSpace(authHeader)
	if header == "" {
		return Identity{}, fault.New(fault.CodeUnauthorized, "missing authorization header", nil)
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return Identity{}, fault.New(fault.CodeUnauthorized, "invalid authorization header format", nil)
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return Identity{}, fault.New(fault.CodeUnauthorized, "empty token", nil)
	}

	if r.provider != nil {
		email, err := r.provider.LookupEmail(ctx, token)
		if err != nil || email == "" {
			return Identity{}, fault.New(fault.CodeUnauthorized, "invalid token", err)
		}
		return Identity{Email: normalizeEmail(email)}, nil
	}

	return r.resolveLocal(token)
}

func (r *Resolver) resolveLocal(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(r.cfg.Secret), nil
	})
	if err != nil {
		return Identity{}, fault.New(fault.CodeUnauthorized, "invalid token", err)
	}
	if !token.Valid {
		return Identity{}, fault.New(fault.CodeUnauthorized, "invalid token", nil)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fault.New(fault.CodeUnauthorized, "invalid token claims", nil)
	}

	if use, _ := claims["token_use"].(string); use != "access" {
		return Identity{}, fault.New(fault.CodeUnauthorized, "token is not an access token", nil)
	}
	if clientID, _ := claims["client_id"].(string); r.cfg.ClientID != "" && clientID != r.cfg.ClientID {
		return Identity{}, fault.New(fault.CodeUnauthorized, "token client mismatch", nil)
	}
	if iss, _ := claims["iss"].(string); r.cfg.Issuer != "" && iss != r.cfg.Issuer {
		return Identity{}, fault.New(fault.CodeUnauthorized, "token issuer mismatch", nil)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		email, _ = claims["username"].(string)
	}
	if email == "" {
		return Identity{}, fault.New(fault.CodeUnauthorized, "token missing identifiers", nil)
	}

	return Identity{Email: normalizeEmail(email)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
