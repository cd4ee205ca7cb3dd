package repository

import (
	"context"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ExistsByEmail and ExistsByUsername back the unique validation rules.
	// except skips one user, for update checks against the user itself.
	ExistsByEmail(ctx context.Context, email string, except *uuid.UUID) (bool, error)
	ExistsByUsername(ctx context.Context, username string, except *uuid.UUID) (bool, error)
}

type TokenRepository interface {
	Create(ctx context.Context, token *domain.AccessToken) error
	GetByHash(ctx context.Context, hash string) (*domain.AccessToken, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	// SearchByContains returns products whose nombre or descripcion contains
	// the term, case-insensitively.
	SearchByContains(ctx context.Context, term string) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User    UserRepository
	Token   TokenRepository
	Product ProductRepository
}
