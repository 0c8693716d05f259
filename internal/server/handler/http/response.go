package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Erespul/flashcards.github.io/internal/middleware"
	"github.com/Erespul/flashcards.github.io/internal/models"
	"github.com/Erespul/flashcards.github.io/internal/service"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// currentUser extracts the session user injected by RequireSession.
func currentUser(r *http.Request) (models.SessionUser, bool) {
	return middleware.GetUserFromContext(r.Context())
}

// writeServiceError maps a service failure onto the response contract:
// validation failures surface their distinct reason, ownership and
// not-found failures collapse into one generic outcome, and storage
// failures are logged in full but reported vaguely.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	switch {
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found or not permitted")
	default:
		logger.Error(op, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "an error occurred")
	}
}

func (h *AuthHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	writeServiceError(w, h.Logger, op, err)
}

func (h *CardHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	writeServiceError(w, h.Logger, op, err)
}
