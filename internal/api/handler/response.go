package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"invoice-dashboard/internal/api/handler/dto"
	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/pkg/apperrors"
)

const msgUnexpected = "An unexpected error occurred."

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// classifyError maps an error to its HTTP status and the message that may be
// shown to the caller. Causes never leak into the message.
func classifyError(err error) (int, string) {
	var validationErr *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Message
	case errors.As(err, &appErr):
		switch appErr.Code {
		case "NOT_FOUND":
			return http.StatusNotFound, appErr.Message
		case "INVALID_ARGUMENT":
			return http.StatusBadRequest, appErr.Message
		case "PAYLOAD_TOO_LARGE":
			return http.StatusRequestEntityTooLarge, appErr.Message
		default:
			return http.StatusInternalServerError, appErr.Message
		}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest, "Invalid request."
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
		return http.StatusInternalServerError, msgUnexpected
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, message := classifyError(err)
	respondJSON(w, status, dto.ErrorResponse{Error: message})
}

// respondFormError writes a failed mutation as form state, carrying the per
// field messages of a validation error.
func respondFormError(w http.ResponseWriter, err error) {
	status, message := classifyError(err)
	state := dto.FormState{Message: message}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) && validationErr.Fields.HasErrors() {
		state.Errors = validationErr.Fields
	}
	respondJSON(w, status, state)
}

// respondResult writes a successful mutation. Redirects become 303 with a
// Location header; rendered results use status.
func respondResult(w http.ResponseWriter, status int, res mutation.Result) {
	if res.IsRedirect() {
		w.Header().Set("Location", res.Target)
		respondJSON(w, http.StatusSeeOther, dto.FormState{Redirect: res.Target})
		return
	}
	respondJSON(w, status, dto.FormState{Message: res.Message})
}
