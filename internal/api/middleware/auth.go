package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/service"
	"github.com/rs/zerolog/log"
)

type contextKey string

const currentUserKey contextKey = "currentUser"

// Auth resolves the bearer token and injects the caller into the request
// context. Requests without a valid token never reach the handler.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, ok := bearerToken(r)
			if !ok {
				unauthenticated(w)
				return
			}

			user, err := tokens.Validate(r.Context(), value)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					log.Error().Err(err).Msg("token validation failed")
				}
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the caller the auth gate resolved for this request.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*domain.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
}
