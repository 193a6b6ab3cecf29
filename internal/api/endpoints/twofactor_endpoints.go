package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/intrale/platform-sub000/internal/auth"
	"github.com/intrale/platform-sub000/internal/dto"
	twofactorservice "github.com/intrale/platform-sub000/internal/service/twofactor"
)

type TwoFactorEndpoints interface {
	Setup(http.ResponseWriter, *http.Request) error
	Verify(http.ResponseWriter, *http.Request) error
}

type twoFactorEndpoints struct {
	resolver auth.IdentityResolver
	service  *twofactorservice.Service
}

func NewTwoFactorEndpoints(resolver auth.IdentityResolver, service *twofactorservice.Service) TwoFactorEndpoints {
	return &twoFactorEndpoints{
		resolver: resolver,
		service:  service,
	}
}

func (h *twoFactorEndpoints) Setup(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleSetup,
	})
}

func (h *twoFactorEndpoints) Verify(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleVerify,
	})
}

func (h *twoFactorEndpoints) handleSetup(w http.ResponseWriter, r *http.Request) error {
	ident, err := h.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		return serviceError(err)
	}

	uri, err := h.service.Setup(r.Context(), ident.Email)
	if err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.TwoFactorSetupResponse{ProvisioningURI: uri})
}

func (h *twoFactorEndpoints) handleVerify(w http.ResponseWriter, r *http.Request) error {
	ident, err := h.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		return serviceError(err)
	}

	var req dto.TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decodeError(err, "two factor verify")
	}

	if err := h.service.Verify(r.Context(), ident.Email, req.Code); err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Code verified"})
}
