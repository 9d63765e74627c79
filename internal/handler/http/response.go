package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
	"github.com/sheking94/not-todo-api/pkg/validator"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, errorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, apperrors.HTTPStatus(err), errorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  vErr.Fields(),
		})
		return
	}

	writeError(w, apperrors.InvalidInput("invalid request body"))
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
