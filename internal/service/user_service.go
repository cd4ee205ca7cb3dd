package service

import (
	"context"
	"time"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/repository"
	"github.com/dom/tienda-api/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

func NewUserService(userRepo repository.UserRepository, tokens *TokenService) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update applies the optional name/email/password fields. Every supplied
// field must pass the same rules registration enforces; the email
// uniqueness check skips the user itself.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in *validation.Input) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	schema := validation.Schema{
		"name": {validation.String, validation.Max(225)},
		"email": {validation.String, validation.Email, validation.Max(225),
			validation.Unique(func(ctx context.Context, value string) (bool, error) {
				return s.userRepo.ExistsByEmail(ctx, value, &user.ID)
			})},
		"password": {validation.String, validation.Min(8), validation.Password},
	}
	fieldErrs, err := validation.Validate(ctx, in, schema)
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	if in.Has("name") {
		user.Name = in.String("name")
	}
	if in.Has("email") {
		user.Email = in.String("email")
	}
	if in.Has("password") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.String("password")), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user and revokes every token they hold, so no session
// outlives its owner.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tokens.RevokeAll(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
