package postgres

import (
	"context"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *tokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.AccessToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) GetByHash(ctx context.Context, hash string) (*domain.AccessToken, error) {
	var token domain.AccessToken
	err := r.db.WithContext(ctx).First(&token, "token_hash = ?", hash).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.AccessToken{}, "user_id = ?", userID).Error
}
