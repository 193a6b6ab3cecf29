package auth

import (
	"context"

	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/identity"
	"github.com/intrale/platform-sub000/internal/model"
)

// Access declares what a guarded action requires from the caller. A zero
// Role means the action only needs a resolved identity.
type Access struct {
	Role             model.Role
	RequireTwoFactor bool
}

type IdentityResolver interface {
	Resolve(ctx context.Context, authHeader string) (identity.Identity, error)
}

type ProfileFinder interface {
	FindProfile(ctx context.Context, key model.ProfileKey) (model.ProfileItem, bool, error)
}

type CodeVerifier interface {
	Verify(ctx context.Context, email, code string) error
}

// Gate checks that a caller is who they claim and holds an approved grant
// before a sensitive action runs. It keeps no state of its own; concurrent
// calls for different callers are safe.
type Gate struct {
	resolver IdentityResolver
	profiles ProfileFinder
	codes    CodeVerifier
	platform string
}

func NewGate(resolver IdentityResolver, profiles ProfileFinder, codes CodeVerifier, platformBusiness string) *Gate {
	return &Gate{
		resolver: resolver,
		profiles: profiles,
		codes:    codes,
		platform: platformBusiness,
	}
}

// Guard resolves the bearer token, checks the grant required by access and,
// when demanded, a fresh two-factor code. PLATFORM_ADMIN grants are always
// looked up on the platform business, whichever tenant the action was
// dispatched on. Store or verification failures never fail open.
func (g *Gate) Guard(
	ctx context.Context,
	businessID string,
	authHeader string,
	twoFactorCode string,
	access Access,
) (identity.Identity, model.ProfileItem, error) {
	ident, err := g.resolver.Resolve(ctx, authHeader)
	if err != nil {
		return identity.Identity{}, model.ProfileItem{}, err
	}

	if access.Role == "" {
		return ident, model.ProfileItem{}, nil
	}

	scope := businessID
	if access.Role == model.RolePlatformAdmin {
		scope = g.platform
	}

	key := model.ProfileKey{
		Email:      ident.Email,
		BusinessID: scope,
		Role:       access.Role,
	}
	profile, found, err := g.profiles.FindProfile(ctx, key)
	if err != nil {
		return identity.Identity{}, model.ProfileItem{}, fault.New(fault.CodeUnauthorized, "profile lookup failed", err)
	}
	if !found || profile.Status != model.StateApproved {
		return identity.Identity{}, model.ProfileItem{}, fault.New(fault.CodeUnauthorized, "profile not authorized", nil)
	}

	if access.RequireTwoFactor {
		if err := g.codes.Verify(ctx, ident.Email, twoFactorCode); err != nil {
			return identity.Identity{}, model.ProfileItem{}, err
		}
	}

	return ident, profile, nil
}
