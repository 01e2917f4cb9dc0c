package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dberzins/accountd/internal/common"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Error codes surfaced in the envelope.
const (
	codeValidation      = "VALIDATION_ERROR"
	codeAuthentication  = "AUTHENTICATION_ERROR"
	codeAuthRequired    = "AUTHENTICATION_REQUIRED"
	codeInvalidToken    = "INVALID_TOKEN"
	codeTokenExpired    = "TOKEN_EXPIRED"
	codeDuplicate       = "DUPLICATE_RESOURCE"
	codeNotFound        = "RESOURCE_NOT_FOUND"
	codeInvalidFileType = "INVALID_FILE_TYPE"
	codeFileTooLarge    = "FILE_TOO_LARGE"
	codeFileRequired    = "FILE_REQUIRED"
	codeRouteNotFound   = "ROUTE_NOT_FOUND"
	codeInternal        = "INTERNAL_SERVER_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, Response{Success: false, Message: message, Error: code})
}

// writeError maps the closed error taxonomy to transport status codes:
// validation 400, authentication/token 401, not-found 404, conflict 409,
// everything else 500. The sentinel-wrapped message is passed through.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorConflict):
		writeFailure(w, http.StatusConflict, err.Error(), codeDuplicate)
	case errors.Is(err, common.ErrFileTooLarge):
		writeFailure(w, http.StatusBadRequest, err.Error(), codeFileTooLarge)
	case errors.Is(err, common.ErrorValidation):
		writeFailure(w, http.StatusBadRequest, err.Error(), codeValidation)
	case errors.Is(err, common.ErrTokenExpired):
		writeFailure(w, http.StatusUnauthorized, err.Error(), codeTokenExpired)
	case errors.Is(err, common.ErrInvalidToken):
		writeFailure(w, http.StatusUnauthorized, err.Error(), codeInvalidToken)
	case errors.Is(err, common.ErrorUnauthorized):
		writeFailure(w, http.StatusUnauthorized, err.Error(), codeAuthentication)
	case errors.Is(err, common.ErrorNotFound):
		writeFailure(w, http.StatusNotFound, err.Error(), codeNotFound)
	default:
		writeFailure(w, http.StatusInternalServerError, "internal server error", codeInternal)
	}
}
