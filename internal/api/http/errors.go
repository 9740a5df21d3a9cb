package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/storefront-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes and public messages.
// Anything unknown is a 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrMissingFields):
		return http.StatusBadRequest, "identifier and password are required"
	case errors.Is(err, model.ErrInvalidConsent):
		return http.StatusBadRequest, "invalid consent choice"
	case errors.Is(err, model.ErrInvalidAuthMode):
		return http.StatusBadRequest, "invalid auth mode"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, model.ErrDuplicateAccount):
		return http.StatusConflict, "account already exists"
	case errors.Is(err, model.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, model.ErrUnknownProduct):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, model.ErrAuthInProgress):
		return http.StatusTooManyRequests, "authentication already in progress"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

var errBadRequest = errors.New("bad request")

func writeError(w http.ResponseWriter, err error) {
	code, msg := statusFor(err)
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
