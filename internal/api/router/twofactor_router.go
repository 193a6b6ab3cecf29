package router

import (
	"net/http"

	"github.com/intrale/platform-sub000/internal/api"
	"github.com/intrale/platform-sub000/internal/api/endpoints"
	"github.com/intrale/platform-sub000/internal/api/middleware"
	"github.com/intrale/platform-sub000/internal/auth"
	twofactorservice "github.com/intrale/platform-sub000/internal/service/twofactor"
)

func TwoFactorRoutes(resolver auth.IdentityResolver, service *twofactorservice.Service, registry middleware.BusinessRegistry) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		twoFactorEndpoints := endpoints.NewTwoFactorEndpoints(resolver, service)
		enabled := middleware.RequireEnabledBusiness(registry)

		mux.HandleFunc("/{business}/2fasetup", s.MakeHTTPHandleFunc(twoFactorEndpoints.Setup, enabled))
		mux.HandleFunc("/{business}/2faverify", s.MakeHTTPHandleFunc(twoFactorEndpoints.Verify, enabled))
	}
}
