package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/repository"
	"github.com/google/uuid"
)

// TokenService issues and validates the opaque bearer tokens protected
// routes run on. Tokens never expire; logout (or deleting the user) is the
// only way they die.
type TokenService struct {
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
}

func NewTokenService(tokenRepo repository.TokenRepository, userRepo repository.UserRepository) *TokenService {
	return &TokenService{tokenRepo: tokenRepo, userRepo: userRepo}
}

// Issue mints a fresh token for the user and returns its plaintext value.
// Only the SHA-256 digest is persisted, so a leaked table cannot be
// replayed against the API.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	value := hex.EncodeToString(raw)

	token := &domain.AccessToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(value),
		IssuedAt:  time.Now(),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}
	return value, nil
}

// Validate resolves a presented token to its owner. Unknown tokens and
// tokens whose owner was deleted both fail with ErrUnauthenticated.
func (s *TokenService) Validate(ctx context.Context, value string) (*domain.User, error) {
	if value == "" {
		return nil, domain.ErrUnauthenticated
	}

	token, err := s.tokenRepo.GetByHash(ctx, hashToken(value))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// RevokeAll deletes every token the user owns.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteByUserID(ctx, userID)
}

func hashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
