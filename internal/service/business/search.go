package business

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/model"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Search pages through businesses in ascending name order. The cursor is the
// sort key of the last returned item; feeding it back resumes after that
// item. An empty LastKey on the result marks the final page.
func (s *Service) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	limit := params.Limit
	if limit < 1 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	var statusFilter model.State
	if status := strings.TrimSpace(params.Status); status != "" {
		parsed, ok := model.ParseState(strings.ToUpper(status))
		if !ok {
			return SearchResult{}, fault.New(fault.CodeValidation, "invalid status filter", nil)
		}
		statusFilter = parsed
	}

	var items []model.BusinessItem
	var err error
	if statusFilter != "" {
		items, err = s.repo.ListByStatus(ctx, statusFilter)
	} else {
		items, err = s.repo.ListBusinesses(ctx)
	}
	if err != nil {
		return SearchResult{}, fault.New(fault.CodeUnavailable, "failed to list businesses", err)
	}

	query := strings.ToLower(strings.TrimSpace(params.Query))
	matched := make([]model.BusinessItem, 0, len(items))
	for _, item := range items {
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(i, j int) bool {
		return sortKey(matched[i]) < sortKey(matched[j])
	})

	start := 0
	if params.LastKey != "" {
		for i, item := range matched {
			if sortKey(item) > params.LastKey {
				start = i
				break
			}
			start = i + 1
		}
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	page := matched[start:end]
	result := SearchResult{Items: page}
	if end < len(matched) && len(page) > 0 {
		result.LastKey = sortKey(page[len(page)-1])
	}
	return result, nil
}

// sortKey orders by name with the public id as tiebreaker, which also keeps
// the cursor unique per item.
func sortKey(item model.BusinessItem) string {
	return fmt.Sprintf("%s#%s", strings.ToLower(item.Name), item.PublicID)
}
