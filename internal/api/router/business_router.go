package router

import (
	"net/http"

	"github.com/intrale/platform-sub000/internal/api"
	"github.com/intrale/platform-sub000/internal/api/endpoints"
	"github.com/intrale/platform-sub000/internal/api/middleware"
	businessservice "github.com/intrale/platform-sub000/internal/service/business"
)

func BusinessRoutes(service *businessservice.Service) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		businessEndpoints := endpoints.NewBusinessEndpoints(service)
		enabled := middleware.RequireEnabledBusiness(service)

		mux.HandleFunc("/{business}/registerBusiness", s.MakeHTTPHandleFunc(businessEndpoints.RegisterBusiness, enabled))
		mux.HandleFunc("/{business}/reviewBusiness", s.MakeHTTPHandleFunc(businessEndpoints.ReviewBusiness, enabled))
		mux.HandleFunc("/{business}/searchBusinesses", s.MakeHTTPHandleFunc(businessEndpoints.SearchBusinesses, enabled))
		mux.HandleFunc("/{business}/configAutoAcceptDeliveries", s.MakeHTTPHandleFunc(businessEndpoints.ConfigAutoAcceptDeliveries, enabled))
	}
}
