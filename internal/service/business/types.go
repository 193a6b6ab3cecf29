package business

import (
	"context"

	"github.com/intrale/platform-sub000/internal/model"
)

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

type RegisterParams struct {
	Name                 string
	AdminEmail           string
	Description          string
	AutoAcceptDeliveries bool
}

type ReviewParams struct {
	PublicID      string
	Decision      string
	TwoFactorCode string
}

type SearchParams struct {
	Query   string
	Status  string
	Limit   int
	LastKey string
}

type SearchResult struct {
	Items   []model.BusinessItem
	LastKey string
}

// ProfileGrants is the slice of the profile store the lifecycle needs to
// issue the admin grant on approval.
type ProfileGrants interface {
	FindProfile(ctx context.Context, key model.ProfileKey) (model.ProfileItem, bool, error)
	PutProfile(ctx context.Context, item model.ProfileItem) error
}
