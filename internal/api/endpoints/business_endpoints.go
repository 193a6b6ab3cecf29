package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/intrale/platform-sub000/internal/dto"
	"github.com/intrale/platform-sub000/internal/model"
	businessservice "github.com/intrale/platform-sub000/internal/service/business"
)

type BusinessEndpoints interface {
	RegisterBusiness(http.ResponseWriter, *http.Request) error
	ReviewBusiness(http.ResponseWriter, *http.Request) error
	SearchBusinesses(http.ResponseWriter, *http.Request) error
	ConfigAutoAcceptDeliveries(http.ResponseWriter, *http.Request) error
}

type businessEndpoints struct {
	service *businessservice.Service
}

func NewBusinessEndpoints(service *businessservice.Service) BusinessEndpoints {
	return &businessEndpoints{
		service: service,
	}
}

func (h *businessEndpoints) RegisterBusiness(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleRegisterBusiness,
	})
}

func (h *businessEndpoints) ReviewBusiness(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleReviewBusiness,
	})
}

func (h *businessEndpoints) SearchBusinesses(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleSearchBusinesses,
	})
}

func (h *businessEndpoints) ConfigAutoAcceptDeliveries(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleConfigAutoAcceptDeliveries,
	})
}

func (h *businessEndpoints) handleRegisterBusiness(w http.ResponseWriter, r *http.Request) error {
	var req dto.RegisterBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "register business")
	}

	item, err := h.service.Register(r.Context(), businessservice.RegisterParams{
		Name:                 req.Name,
		AdminEmail:           req.AdminEmail,
		Description:          req.Description,
		AutoAcceptDeliveries: req.AutoAcceptDeliveries,
	})
	if err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, toBusinessResponse(item))
}

func (h *businessEndpoints) handleReviewBusiness(w http.ResponseWriter, r *http.Request) error {
	var req dto.ReviewBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "review business")
	}

	item, err := h.service.Review(r.Context(), r.PathValue("business"), r.Header.Get("Authorization"), businessservice.ReviewParams{
		PublicID:      req.PublicID,
		Decision:      req.Decision,
		TwoFactorCode: req.TwoFactorCode,
	})
	if err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, toBusinessResponse(item))
}

func (h *businessEndpoints) handleSearchBusinesses(w http.ResponseWriter, r *http.Request) error {
	var req dto.SearchBusinessesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "search businesses")
	}

	result, err := h.service.Search(r.Context(), businessservice.SearchParams{
		Query:   req.Query,
		Status:  req.Status,
		Limit:   req.Limit,
		LastKey: req.LastKey,
	})
	if err != nil {
		return serviceError(err)
	}

	resp := dto.SearchBusinessesResponse{
		Items: make([]dto.BusinessResponse, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, toBusinessResponse(item))
	}
	if result.LastKey != "" {
		lastKey := result.LastKey
		resp.LastKey = &lastKey
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *businessEndpoints) handleConfigAutoAcceptDeliveries(w http.ResponseWriter, r *http.Request) error {
	var req dto.ConfigAutoAcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "config auto accept")
	}

	if err := h.service.ConfigureAutoAccept(r.Context(), r.PathValue("business"), r.Header.Get("Authorization"), req.AutoAcceptDeliveries); err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Configuration updated"})
}

func toBusinessResponse(item model.BusinessItem) dto.BusinessResponse {
	return dto.BusinessResponse{
		PublicID:             item.PublicID,
		Name:                 item.Name,
		Description:          item.Description,
		Status:               string(item.Status),
		AutoAcceptDeliveries: item.AutoAcceptDeliveries,
	}
}
