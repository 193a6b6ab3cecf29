package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/intrale/platform-sub000/internal/dto"
	"github.com/intrale/platform-sub000/internal/model"
	profileservice "github.com/intrale/platform-sub000/internal/service/profile"
)

type ProfileEndpoints interface {
	RequestJoinBusiness(http.ResponseWriter, *http.Request) error
	ReviewJoinBusiness(http.ResponseWriter, *http.Request) error
	AssignProfile(http.ResponseWriter, *http.Request) error
	RegisterSaler(http.ResponseWriter, *http.Request) error
}

type profileEndpoints struct {
	service *profileservice.Service
}

func NewProfileEndpoints(service *profileservice.Service) ProfileEndpoints {
	return &profileEndpoints{
		service: service,
	}
}

func (h *profileEndpoints) RequestJoinBusiness(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleRequestJoinBusiness,
	})
}

func (h *profileEndpoints) ReviewJoinBusiness(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleReviewJoinBusiness,
	})
}

func (h *profileEndpoints) AssignProfile(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleAssignProfile,
	})
}

func (h *profileEndpoints) RegisterSaler(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleRegisterSaler,
	})
}

func (h *profileEndpoints) handleRequestJoinBusiness(w http.ResponseWriter, r *http.Request) error {
	item, err := h.service.RequestJoin(r.Context(), r.PathValue("business"), r.Header.Get("Authorization"))
	if err != nil {
		return serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, toProfileResponse(item))
}

func (h *profileEndpoints) handleReviewJoinBusiness(w http.ResponseWriter, r *http.Request) error {
	var req dto.ReviewJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "review join")
	}

	item, err := h.service.ReviewJoin(r.Context(), r.PathValue("business"), r.Header.Get("Authorization"), req.Email, req.Decision)
	if err != nil {
		return serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, toProfileResponse(item))
}

func (h *profileEndpoints) handleAssignProfile(w http.ResponseWriter, r *http.Request) error {
	var req dto.AssignProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "assign profile")
	}

	item, err := h.service.AssignProfile(r.Context(), r.PathValue("business"), r.Header.Get("Authorization"), req.Email, req.Profile)
	if err != nil {
		return serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, toProfileResponse(item))
}

func (h *profileEndpoints) handleRegisterSaler(w http.ResponseWriter, r *http.Request) error {
	var req dto.RegisterSalerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "register saler")
	}

	item, err := h.service.RegisterSaler(r.Context(), r.PathValue("business"), r.Header.Get("Authorization"), req.Email)
	if err != nil {
		return serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, toProfileResponse(item))
}

func toProfileResponse(item model.ProfileItem) dto.ProfileResponse {
	return dto.ProfileResponse{
		Email:      item.Email,
		BusinessID: item.BusinessID,
		Role:       string(item.Role),
		Status:     string(item.Status),
	}
}
