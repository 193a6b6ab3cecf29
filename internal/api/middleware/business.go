package middleware

import (
	"context"
	"net/http"
)

// BusinessRegistry reports whether a business public id may receive
// requests. The check hits the store on every call, so an approval is
// visible to the next request.
type BusinessRegistry interface {
	IsEnabled(ctx context.Context, publicID string) (bool, error)
}

// RequireEnabledBusiness rejects requests whose {business} path segment is
// not on the allow-list of approved businesses.
func RequireEnabledBusiness(registry BusinessRegistry) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			businessID := r.PathValue("business")
			if businessID == "" {
				http.Error(w, "Business not found", http.StatusNotFound)
				return
			}

			enabled, err := registry.IsEnabled(r.Context(), businessID)
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if !enabled {
				http.Error(w, "Business not found", http.StatusNotFound)
				return
			}

			next(w, r)
		}
	}
}
