package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hotel-inventory-api/internal/auth"
	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/service"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteErrorMessage(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, auth.ErrorResponse{Error: message, Code: code})
}

// StatusFor maps an error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrNotConfirmed):
		return http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_FAILED"
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, errs.ErrRemote):
		return http.StatusBadGateway, "REMOTE_FAILURE"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// WriteError renders err in the standard error shape. Store and internal failures
// get a generic message; the cause is logged instead.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	switch status {
	case http.StatusPreconditionRequired:
		var nc *service.NotConfirmedError
		if errors.As(err, &nc) {
			message = nc.Prompt
		}
	case http.StatusBadGateway:
		message = "remote store failure"
		log.Error("request failed", zap.Error(err))
	case http.StatusInternalServerError:
		message = "internal error"
		log.Error("request failed", zap.Error(err))
	}
	WriteErrorMessage(w, status, message, code)
}
