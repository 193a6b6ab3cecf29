package router

import (
	"net/http"

	"github.com/intrale/platform-sub000/internal/api"
	"github.com/intrale/platform-sub000/internal/api/endpoints"
	"github.com/intrale/platform-sub000/internal/api/middleware"
	profileservice "github.com/intrale/platform-sub000/internal/service/profile"
)

func ProfileRoutes(service *profileservice.Service, registry middleware.BusinessRegistry) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		profileEndpoints := endpoints.NewProfileEndpoints(service)
		enabled := middleware.RequireEnabledBusiness(registry)

		mux.HandleFunc("/{business}/requestJoinBusiness", s.MakeHTTPHandleFunc(profileEndpoints.RequestJoinBusiness, enabled))
		mux.HandleFunc("/{business}/reviewJoinBusiness", s.MakeHTTPHandleFunc(profileEndpoints.ReviewJoinBusiness, enabled))
		mux.HandleFunc("/{business}/assignProfile", s.MakeHTTPHandleFunc(profileEndpoints.AssignProfile, enabled))
		mux.HandleFunc("/{business}/registerSaler", s.MakeHTTPHandleFunc(profileEndpoints.RegisterSaler, enabled))
	}
}
