package handlers

import (
	"net/http"

	"github.com/dom/tienda-api/internal/api/middleware"
	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authResponse struct {
	Message     string       `json:"message"`
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.authService.Register(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Message:     "user registered successfully",
		User:        result.User,
		AccessToken: result.Token,
		TokenType:   "Bearer",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.authService.Login(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  result.User,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	if err := h.authService.Logout(r.Context(), user); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out, all tokens revoked"})
}
