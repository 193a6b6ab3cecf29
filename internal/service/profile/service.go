package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/intrale/platform-sub000/internal/auth"
	"github.com/intrale/platform-sub000/internal/database"
	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/identity"
	"github.com/intrale/platform-sub000/internal/model"
	"github.com/intrale/platform-sub000/utils"
)

// BusinessFinder is the slice of the business store this workflow reads:
// join requests consult the auto-accept flag of the target business.
type BusinessFinder interface {
	GetBusiness(ctx context.Context, publicID string) (model.BusinessItem, bool, error)
}

// Service runs the grant workflows: join requests with the auto-accept fast
// path, admin review, direct assignment and saler registration. Grants are
// keyed by (email, business, role) and are never deleted; review supersedes
// their state.
type Service struct {
	repo       Repository
	businesses BusinessFinder
	provider   identity.Provider
	gate       *auth.Gate
	now        func() time.Time
}

func New(db *database.Database, businesses BusinessFinder, provider identity.Provider, gate *auth.Gate) *Service {
	return NewWithRepository(NewDynamoRepository(db), businesses, provider, gate, time.Now)
}

func NewWithRepository(
	repo Repository,
	businesses BusinessFinder,
	provider identity.Provider,
	gate *auth.Gate,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:       repo,
		businesses: businesses,
		provider:   provider,
		gate:       gate,
		now:        now,
	}
}

// RequestJoin files a DELIVERY grant for the caller. When the business
// auto-accepts deliveries the grant is born APPROVED; otherwise it waits for
// a BUSINESS_ADMIN review. Repeating the request converges on the current
// policy and never downgrades an approved grant.
func (s *Service) RequestJoin(ctx context.Context, businessID, authHeader string) (model.ProfileItem, error) {
	ident, _, err := s.gate.Guard(ctx, businessID, authHeader, "", auth.Access{})
	if err != nil {
		return model.ProfileItem{}, err
	}

	biz, found, err := s.businesses.GetBusiness(ctx, businessID)
	if err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to load business", err)
	}
	if !found {
		return model.ProfileItem{}, fault.New(fault.CodeNotFound, "business not found", nil)
	}

	state := model.StatePending
	if biz.AutoAcceptDeliveries {
		state = model.StateApproved
	}

	key := model.ProfileKey{
		Email:      ident.Email,
		BusinessID: businessID,
		Role:       model.RoleDelivery,
	}
	existing, found, err := s.repo.FindProfile(ctx, key)
	if err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to check existing profile", err)
	}
	if found && existing.Status == model.StateApproved {
		return existing, nil
	}
	if found && existing.Status == state {
		return existing, nil
	}

	item := s.newGrant(key, state)
	if found {
		item.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.PutProfile(ctx, item); err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to create profile", err)
	}
	return item, nil
}

// ReviewJoin settles a pending DELIVERY grant. Repeating a decision is a
// no-op.
func (s *Service) ReviewJoin(ctx context.Context, businessID, authHeader, email, decision string) (model.ProfileItem, error) {
	_, _, err := s.gate.Guard(ctx, businessID, authHeader, "", auth.Access{Role: model.RoleBusinessAdmin})
	if err != nil {
		return model.ProfileItem{}, err
	}

	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeValidation, "invalid email", err)
	}

	target, ok := model.ParseState(strings.ToUpper(strings.TrimSpace(decision)))
	if !ok || target == model.StatePending {
		return model.ProfileItem{}, fault.New(fault.CodeValidation, "decision must be APPROVED or REJECTED", nil)
	}

	key := model.ProfileKey{
		Email:      email,
		BusinessID: businessID,
		Role:       model.RoleDelivery,
	}
	grant, found, err := s.repo.FindProfile(ctx, key)
	if err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to load profile", err)
	}
	if !found {
		return model.ProfileItem{}, fault.New(fault.CodeNotFound, "join request not found", nil)
	}
	if grant.Status == target {
		return grant, nil
	}

	grant.Status = target
	grant.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.repo.PutProfile(ctx, grant); err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to update profile", err)
	}
	return grant, nil
}

// AssignProfile creates or upgrades a grant directly in APPROVED state, an
// administrative override that skips review.
func (s *Service) AssignProfile(ctx context.Context, businessID, authHeader, email, role string) (model.ProfileItem, error) {
	_, _, err := s.gate.Guard(ctx, businessID, authHeader, "", auth.Access{Role: model.RolePlatformAdmin})
	if err != nil {
		return model.ProfileItem{}, err
	}

	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeValidation, "invalid email", err)
	}
	parsedRole, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(role)))
	if !ok {
		return model.ProfileItem{}, fault.New(fault.CodeValidation, "invalid profile role", nil)
	}

	key := model.ProfileKey{
		Email:      email,
		BusinessID: businessID,
		Role:       parsedRole,
	}
	existing, found, err := s.repo.FindProfile(ctx, key)
	if err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to check existing profile", err)
	}
	if found && existing.Status == model.StateApproved {
		return existing, nil
	}

	item := s.newGrant(key, model.StateApproved)
	if found {
		item.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.PutProfile(ctx, item); err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to assign profile", err)
	}
	return item, nil
}

// RegisterSaler creates the saler account with the identity provider and an
// APPROVED SALER grant. An already-approved grant is a conflict; a pending
// one converges to APPROVED. Account creation is best effort: the provider
// reporting an existing account does not abort the grant.
func (s *Service) RegisterSaler(ctx context.Context, businessID, authHeader, email string) (model.ProfileItem, error) {
	_, _, err := s.gate.Guard(ctx, businessID, authHeader, "", auth.Access{Role: model.RoleBusinessAdmin})
	if err != nil {
		return model.ProfileItem{}, err
	}

	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeValidation, "invalid email", err)
	}

	key := model.ProfileKey{
		Email:      email,
		BusinessID: businessID,
		Role:       model.RoleSaler,
	}
	existing, found, err := s.repo.FindProfile(ctx, key)
	if err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to check existing profile", err)
	}
	if found && existing.Status == model.StateApproved {
		return model.ProfileItem{}, fault.New(fault.CodeConflict, "saler already registered", nil)
	}

	if s.provider != nil {
		if err := s.provider.CreateAccount(ctx, email); err != nil && !errors.Is(err, identity.ErrAccountExists) {
			return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to create saler account", err)
		}
	}

	item := s.newGrant(key, model.StateApproved)
	if found {
		item.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.PutProfile(ctx, item); err != nil {
		return model.ProfileItem{}, fault.New(fault.CodeUnavailable, "failed to create profile", err)
	}
	return item, nil
}

func (s *Service) newGrant(key model.ProfileKey, state model.State) model.ProfileItem {
	now := s.now().UTC().Format(time.RFC3339)
	return model.ProfileItem{
		PK:         key.PK(),
		Email:      key.Email,
		BusinessID: key.BusinessID,
		Role:       key.Role,
		Status:     state,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
