package business

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/intrale/platform-sub000/internal/auth"
	"github.com/intrale/platform-sub000/internal/database"
	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/model"
	"github.com/intrale/platform-sub000/utils"
)

// Service owns the business registration and review state machine:
// PENDING -> APPROVED | REJECTED, both terminal.
type Service struct {
	repo     Repository
	profiles ProfileGrants
	gate     *auth.Gate
	platform string
	now      func() time.Time
}

func New(db *database.Database, profiles ProfileGrants, gate *auth.Gate, platform string) *Service {
	return NewWithRepository(NewDynamoRepository(db), profiles, gate, platform, time.Now)
}

func NewWithRepository(repo Repository, profiles ProfileGrants, gate *auth.Gate, platform string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:     repo,
		profiles: profiles,
		gate:     gate,
		platform: platform,
		now:      now,
	}
}

// Register creates a pending business. The public id is the slug of the
// name; a non-rejected business already holding that slug is a conflict.
func (s *Service) Register(ctx context.Context, params RegisterParams) (model.BusinessItem, error) {
	name := strings.TrimSpace(params.Name)
	adminEmail := utils.NormalizeEmail(params.AdminEmail)

	if name == "" {
		return model.BusinessItem{}, fault.New(fault.CodeValidation, "business name is required", nil)
	}
	if err := utils.ValidateEmail(adminEmail); err != nil {
		return model.BusinessItem{}, fault.New(fault.CodeValidation, "invalid admin email", err)
	}

	publicID := Slugify(name)
	if publicID == "" {
		return model.BusinessItem{}, fault.New(fault.CodeValidation, "business name has no usable characters", nil)
	}
	if publicID == s.platform {
		return model.BusinessItem{}, fault.New(fault.CodeConflict, "business name is reserved", nil)
	}

	existing, found, err := s.repo.GetBusiness(ctx, publicID)
	if err != nil {
		return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to check existing business", err)
	}
	if found && existing.Status != model.StateRejected {
		return model.BusinessItem{}, fault.New(fault.CodeConflict, "business already registered", nil)
	}

	item := model.BusinessItem{
		PublicID:             publicID,
		BusinessID:           uuid.NewString(),
		Name:                 name,
		AdminEmail:           adminEmail,
		Description:          params.Description,
		Status:               model.StatePending,
		AutoAcceptDeliveries: params.AutoAcceptDeliveries,
		CreatedAt:            s.now().UTC().Format(time.RFC3339),
	}

	if err := s.repo.PutBusiness(ctx, item); err != nil {
		return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to create business", err)
	}
	return item, nil
}

// Review settles a pending registration. Approval also issues the
// BUSINESS_ADMIN grant for the admin email; repeating the same decision is
// a no-op.
func (s *Service) Review(ctx context.Context, businessID, authHeader string, params ReviewParams) (model.BusinessItem, error) {
	_, _, err := s.gate.Guard(ctx, businessID, authHeader, params.TwoFactorCode, auth.Access{
		Role:             model.RolePlatformAdmin,
		RequireTwoFactor: true,
	})
	if err != nil {
		return model.BusinessItem{}, err
	}

	decision := strings.TrimSpace(params.Decision)
	if decision != DecisionApproved && decision != DecisionRejected {
		return model.BusinessItem{}, fault.New(fault.CodeValidation, "decision must be approved or rejected", nil)
	}

	publicID := strings.TrimSpace(params.PublicID)
	biz, found, err := s.repo.GetBusiness(ctx, publicID)
	if err != nil {
		return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to load business", err)
	}
	if !found {
		return model.BusinessItem{}, fault.New(fault.CodeNotFound, "business not found", nil)
	}

	if decision == DecisionRejected {
		return s.reject(ctx, biz)
	}
	return s.approve(ctx, biz)
}

func (s *Service) approve(ctx context.Context, biz model.BusinessItem) (model.BusinessItem, error) {
	if biz.Status == model.StateRejected {
		return model.BusinessItem{}, fault.New(fault.CodeConflict, "business already rejected", nil)
	}

	approved, err := s.repo.ListByStatus(ctx, model.StateApproved)
	if err != nil {
		return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to check approved businesses", err)
	}
	for _, other := range approved {
		if other.PublicID != biz.PublicID && strings.EqualFold(other.Name, biz.Name) {
			return model.BusinessItem{}, fault.New(fault.CodeConflict, "business name already exists", nil)
		}
	}

	if biz.Status != model.StateApproved {
		biz.Status = model.StateApproved
		if err := s.repo.PutBusiness(ctx, biz); err != nil {
			return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to update business", err)
		}
	}

	key := model.ProfileKey{
		Email:      biz.AdminEmail,
		BusinessID: biz.PublicID,
		Role:       model.RoleBusinessAdmin,
	}
	grant, found, err := s.profiles.FindProfile(ctx, key)
	if err != nil {
		return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to check admin profile", err)
	}
	if !found || grant.Status != model.StateApproved {
		now := s.now().UTC().Format(time.RFC3339)
		item := model.ProfileItem{
			PK:         key.PK(),
			Email:      key.Email,
			BusinessID: key.BusinessID,
			Role:       key.Role,
			Status:     model.StateApproved,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if found {
			item.CreatedAt = grant.CreatedAt
		}
		if err := s.profiles.PutProfile(ctx, item); err != nil {
			return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to issue admin profile", err)
		}
	}

	return biz, nil
}

func (s *Service) reject(ctx context.Context, biz model.BusinessItem) (model.BusinessItem, error) {
	if biz.Status == model.StateApproved {
		return model.BusinessItem{}, fault.New(fault.CodeConflict, "business already approved", nil)
	}
	if biz.Status != model.StateRejected {
		biz.Status = model.StateRejected
		if err := s.repo.PutBusiness(ctx, biz); err != nil {
			return model.BusinessItem{}, fault.New(fault.CodeUnavailable, "failed to update business", err)
		}
	}
	return biz, nil
}

// ConfigureAutoAccept flips the delivery auto-accept flag. Safe to repeat
// with the same value.
func (s *Service) ConfigureAutoAccept(ctx context.Context, businessID, authHeader string, enabled bool) error {
	_, _, err := s.gate.Guard(ctx, businessID, authHeader, "", auth.Access{Role: model.RoleBusinessAdmin})
	if err != nil {
		return err
	}

	_, found, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return fault.New(fault.CodeUnavailable, "failed to load business", err)
	}
	if !found {
		return fault.New(fault.CodeNotFound, "business not found", nil)
	}

	if err := s.repo.UpdateAutoAccept(ctx, businessID, enabled); err != nil {
		return fault.New(fault.CodeUnavailable, "failed to update business", err)
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9 -]`)

// Slugify derives the routing-visible public id from a business name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = strings.Join(strings.Fields(slug), "-")
	return strings.Trim(slug, "-")
}
