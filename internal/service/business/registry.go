package business

import (
	"context"
	"sort"

	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/model"
)

// EnabledBusinesses returns the public ids requests may be dispatched on:
// every approved business plus the platform business. The set is recomputed
// from the store on every call so an approval is visible to the next request
// without any invalidation step.
func (s *Service) EnabledBusinesses(ctx context.Context) ([]string, error) {
	approved, err := s.repo.ListByStatus(ctx, model.StateApproved)
	if err != nil {
		return nil, fault.New(fault.CodeUnavailable, "failed to list businesses", err)
	}

	ids := make([]string, 0, len(approved)+1)
	ids = append(ids, s.platform)
	for _, biz := range approved {
		ids = append(ids, biz.PublicID)
	}
	sort.Strings(ids)
	return ids, nil
}

// IsEnabled reports whether publicID may receive requests.
func (s *Service) IsEnabled(ctx context.Context, publicID string) (bool, error) {
	if publicID == s.platform {
		return true, nil
	}
	ids, err := s.EnabledBusinesses(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == publicID {
			return true, nil
		}
	}
	return false, nil
}
