package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/intrale/platform-sub000/internal/api"
	"github.com/intrale/platform-sub000/internal/auth"
	"github.com/intrale/platform-sub000/internal/dto"
	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/identity"
	"github.com/intrale/platform-sub000/internal/model"
	"github.com/intrale/platform-sub000/internal/queue"
	businessservice "github.com/intrale/platform-sub000/internal/service/business"
	profileservice "github.com/intrale/platform-sub000/internal/service/profile"
)

const platformID = "intrale"

type memoryBusinessRepo struct {
	businesses map[string]model.BusinessItem
}

func (m *memoryBusinessRepo) GetBusiness(ctx context.Context, publicID string) (model.BusinessItem, bool, error) {
	item, ok := m.businesses[publicID]
	return item, ok, nil
}

func (m *memoryBusinessRepo) PutBusiness(ctx context.Context, item model.BusinessItem) error {
	m.businesses[item.PublicID] = item
	return nil
}

func (m *memoryBusinessRepo) UpdateAutoAccept(ctx context.Context, publicID string, enabled bool) error {
	item := m.businesses[publicID]
	item.AutoAcceptDeliveries = enabled
	m.businesses[publicID] = item
	return nil
}

func (m *memoryBusinessRepo) ListBusinesses(ctx context.Context) ([]model.BusinessItem, error) {
	items := make([]model.BusinessItem, 0, len(m.businesses))
	for _, item := range m.businesses {
		items = append(items, item)
	}
	return items, nil
}

func (m *memoryBusinessRepo) ListByStatus(ctx context.Context, status model.State) ([]model.BusinessItem, error) {
	items := make([]model.BusinessItem, 0)
	for _, item := range m.businesses {
		if item.Status == status {
			items = append(items, item)
		}
	}
	return items, nil
}

type memoryProfileRepo struct {
	profiles map[string]model.ProfileItem
}

func (m *memoryProfileRepo) FindProfile(ctx context.Context, key model.ProfileKey) (model.ProfileItem, bool, error) {
	item, ok := m.profiles[key.PK()]
	return item, ok, nil
}

func (m *memoryProfileRepo) PutProfile(ctx context.Context, item model.ProfileItem) error {
	m.profiles[item.Key().PK()] = item
	return nil
}

type tokenResolver struct {
	emails map[string]string
}

func (r *tokenResolver) Resolve(ctx context.Context, authHeader string) (identity.Identity, error) {
	email, ok := r.emails[authHeader]
	if !ok {
		return identity.Identity{}, fault.New(fault.CodeUnauthorized, "invalid token", nil)
	}
	return identity.Identity{Email: email}, nil
}

type acceptAllCodes struct{}

func (acceptAllCodes) Verify(ctx context.Context, email, code string) error {
	return nil
}

func fixedTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func setupHandler(t *testing.T) http.Handler {
	t.Helper()

	businessRepo := &memoryBusinessRepo{businesses: make(map[string]model.BusinessItem)}
	profileRepo := &memoryProfileRepo{profiles: make(map[string]model.ProfileItem)}

	rootKey := model.ProfileKey{Email: "root@intrale.com", BusinessID: platformID, Role: model.RolePlatformAdmin}
	profileRepo.profiles[rootKey.PK()] = model.ProfileItem{
		PK:         rootKey.PK(),
		Email:      rootKey.Email,
		BusinessID: rootKey.BusinessID,
		Role:       rootKey.Role,
		Status:     model.StateApproved,
	}

	resolver := &tokenResolver{emails: map[string]string{
		"Bearer root-token":  "root@intrale.com",
		"Bearer rider-token": "rider@example.com",
	}}
	gate := auth.NewGate(resolver, profileRepo, acceptAllCodes{}, platformID)

	businessService := businessservice.NewWithRepository(businessRepo, profileRepo, gate, platformID, fixedTime)
	profileService := profileservice.NewWithRepository(profileRepo, businessRepo, nil, gate, fixedTime)

	rqm := queue.NewRequestQueueManager(10, 2, nil)
	t.Cleanup(rqm.Shutdown)

	server := api.NewAPIServer(":0", rqm, nil)

	mux := http.NewServeMux()
	BusinessRoutes(businessService)(mux, server)
	ProfileRoutes(profileService, businessService)(mux, server)
	return mux
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRegisterBusinessEndpoint(t *testing.T) {
	handler := setupHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/intrale/registerBusiness", "", dto.RegisterBusinessRequest{
		Name:       "Cafe Aroma",
		AdminEmail: "owner@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BusinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PublicID != "cafe-aroma" || resp.Status != "PENDING" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRegisterBusinessRejectsBadPayload(t *testing.T) {
	handler := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/intrale/registerBusiness", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterBusinessMethodNotAllowed(t *testing.T) {
	handler := setupHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/intrale/registerBusiness", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestReviewBusinessRequiresAuth(t *testing.T) {
	handler := setupHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/intrale/reviewBusiness", "", dto.ReviewBusinessRequest{
		PublicID: "cafe-aroma",
		Decision: "approved",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDisabledTenantIsNotFound(t *testing.T) {
	handler := setupHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/unknown-shop/registerBusiness", "", dto.RegisterBusinessRequest{
		Name:       "Cafe Aroma",
		AdminEmail: "owner@example.com",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for disabled tenant, got %d", rec.Code)
	}
}

func TestApprovalEnablesTenantRouting(t *testing.T) {
	handler := setupHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/intrale/registerBusiness", "", dto.RegisterBusinessRequest{
		Name:       "Cafe Aroma",
		AdminEmail: "owner@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d: %s", rec.Code, rec.Body.String())
	}

	// Pending businesses do not receive requests yet.
	rec = doJSON(t, handler, http.MethodPost, "/cafe-aroma/requestJoinBusiness", "rider-token", struct{}{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before approval, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/intrale/reviewBusiness", "root-token", dto.ReviewBusinessRequest{
		PublicID:      "cafe-aroma",
		Decision:      "approved",
		TwoFactorCode: "123456",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("review: %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/cafe-aroma/requestJoinBusiness", "rider-token", struct{}{})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after approval, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "PENDING" {
		t.Fatalf("join without auto-accept must be pending, got %s", resp.Status)
	}
}

func TestSearchBusinessesEndpoint(t *testing.T) {
	handler := setupHandler(t)

	names := []string{"Alpha Shop", "Beta Shop", "Gamma Shop"}
	for _, name := range names {
		rec := doJSON(t, handler, http.MethodPost, "/intrale/registerBusiness", "", dto.RegisterBusinessRequest{
			Name:       name,
			AdminEmail: "owner@example.com",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("register %s: %d", name, rec.Code)
		}
	}

	rec := doJSON(t, handler, http.MethodPost, "/intrale/searchBusinesses", "", dto.SearchBusinessesRequest{Limit: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SearchBusinessesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.LastKey == nil {
		t.Fatal("expected a continuation cursor")
	}

	rec = doJSON(t, handler, http.MethodPost, "/intrale/searchBusinesses", "", dto.SearchBusinessesRequest{
		Limit:   2,
		LastKey: *resp.LastKey,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("search second page: %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected final page of 1, got %d", len(resp.Items))
	}
	if resp.LastKey != nil {
		t.Fatal("final page must carry no cursor")
	}
}
