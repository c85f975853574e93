package server

import (
	"encoding/json"
	"net/http"

	serveerrors "tinyserve/internal/errors"
)

// ErrorResponse represents an HTTP error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError writes err as JSON with a status derived from its code.
func WriteError(w http.ResponseWriter, err error) {
	code := serveerrors.CodeOf(err)
	if code == "" {
		code = serveerrors.InternalError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))

	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: err.Error(),
		Code:  string(code),
	})
}

// StatusFor maps error codes to HTTP status codes
func StatusFor(code serveerrors.ErrorCode) int {
	switch code {
	case serveerrors.Unauthorized:
		return http.StatusUnauthorized // 401
	case serveerrors.RateLimited:
		return http.StatusTooManyRequests // 429
	case serveerrors.FileReadFailure:
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}
