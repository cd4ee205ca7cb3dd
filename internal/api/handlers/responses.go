package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps the domain error taxonomy onto the wire. Anything
// outside the taxonomy is a 500 with a generic body; internal detail stays
// in the log.
func respondError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrUnauthenticated):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
	default:
		log.Error().Err(err).Msg("request failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
