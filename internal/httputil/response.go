package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/samuelcg20/Apt/internal/apperr"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithMessage writes {"message": ...} merged with extra fields
func RespondWithMessage(w http.ResponseWriter, code int, message string, fields map[string]interface{}) {
	body := map[string]interface{}{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	RespondWithJSON(w, code, body)
}

// RespondWithServiceError maps service errors onto status codes. Anything that
// is not an expected *apperr.Error is logged and hidden behind a generic 500.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := apperr.Status(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logger.WarnContext(r.Context(), "request rejected", "status", status, "error", appErr.Message)
	} else {
		logger.DebugContext(r.Context(), "request rejected", "status", status, "error", appErr.Message)
	}

	RespondWithJSON(w, status, ErrorResponse{Error: appErr.Message, Details: appErr.Details})
}
