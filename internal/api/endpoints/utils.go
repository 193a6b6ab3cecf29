package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/intrale/platform-sub000/internal/api"
	"github.com/intrale/platform-sub000/internal/fault"
)

type HTTPError = api.HTTPError

type ApiMessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	return api.WriteJSON(w, status, v)
}

func MethodHandler(
	w http.ResponseWriter,
	r *http.Request,
	allowed map[string]func(http.ResponseWriter, *http.Request) error,
) error {
	if handler, ok := allowed[r.Method]; ok {
		return handler(w, r)
	}
	return &HTTPError{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    "Method not allowed.",
		ErrorLog:   fmt.Errorf("method not allowed"),
	}
}

// serviceError maps the service taxonomy onto HTTP statuses. An invalid
// two-factor code deliberately surfaces as 500: the error kind stays
// distinct internally and the externally visible status matches the
// behavior callers already depend on.
func serviceError(err error) error {
	var fe *fault.Error
	if !errors.As(err, &fe) {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   err,
		}
	}

	status := http.StatusInternalServerError
	switch fe.Code {
	case fault.CodeValidation:
		status = http.StatusBadRequest
	case fault.CodeUnauthorized:
		status = http.StatusUnauthorized
	case fault.CodeNotFound:
		status = http.StatusNotFound
	case fault.CodeConflict:
		status = http.StatusConflict
	case fault.CodeTwoFactorInvalid, fault.CodeUnavailable, fault.CodeInternal:
		status = http.StatusInternalServerError
	}

	return &HTTPError{
		StatusCode: status,
		Message:    fe.Message,
		ErrorLog:   err,
	}
}

func decodeError(err error, what string) error {
	return &HTTPError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid request payload",
		ErrorLog:   fmt.Errorf("decode %s request: %w", what, err),
	}
}
