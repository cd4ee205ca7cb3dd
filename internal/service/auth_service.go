package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/repository"
	"github.com/dom/tienda-api/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

type AuthResult struct {
	User  *domain.User
	Token string
}

func (s *AuthService) registerSchema() validation.Schema {
	return validation.Schema{
		"username": {validation.Required, validation.String, validation.Max(225),
			validation.Unique(s.usernameExists(nil))},
		"name": {validation.Required, validation.String, validation.Max(225)},
		"email": {validation.Required, validation.String, validation.Email, validation.Max(225),
			validation.Unique(s.emailExists(nil))},
		"password": {validation.Required, validation.String, validation.Min(8),
			validation.Confirmed, validation.Password},
		"terms": {validation.Required, validation.Boolean, validation.Accepted},
	}
}

// Register validates the submitted fields, creates the user and issues the
// first token. Nothing is written when any rule fails.
func (s *AuthService) Register(ctx context.Context, in *validation.Input) (*AuthResult, error) {
	fieldErrs, err := validation.Validate(ctx, in, s.registerSchema())
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.String("password")), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:            uuid.New(),
		Username:      in.String("username"),
		Name:          in.String("name"),
		Email:         in.String("email"),
		PasswordHash:  string(hashed),
		AcceptedTerms: in.Bool("terms"),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks the credentials and issues a fresh token. Existing tokens
// stay valid, so a user may hold one session per device.
func (s *AuthService) Login(ctx context.Context, in *validation.Input) (*AuthResult, error) {
	fieldErrs, err := validation.Validate(ctx, in, validation.Schema{
		"email":    {validation.Required, validation.String, validation.Email},
		"password": {validation.Required, validation.String},
	})
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	user, err := s.userRepo.GetByEmail(ctx, in.String("email"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.String("password"))) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes every token the caller owns.
func (s *AuthService) Logout(ctx context.Context, user *domain.User) error {
	return s.tokens.RevokeAll(ctx, user.ID)
}

func (s *AuthService) emailExists(except *uuid.UUID) validation.ExistsFunc {
	return func(ctx context.Context, value string) (bool, error) {
		return s.userRepo.ExistsByEmail(ctx, value, except)
	}
}

func (s *AuthService) usernameExists(except *uuid.UUID) validation.ExistsFunc {
	return func(ctx context.Context, value string) (bool, error) {
		return s.userRepo.ExistsByUsername(ctx, value, except)
	}
}
