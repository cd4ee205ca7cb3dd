package service

import (
	"github.com/dom/tienda-api/internal/repository"
	"github.com/dom/tienda-api/internal/storage"
)

type Services struct {
	Token   *TokenService
	Auth    *AuthService
	User    *UserService
	Product *ProductService
}

func NewServices(repos *repository.Repositories, files storage.FileStore) *Services {
	tokens := NewTokenService(repos.Token, repos.User)
	return &Services{
		Token:   tokens,
		Auth:    NewAuthService(repos.User, tokens),
		User:    NewUserService(repos.User, tokens),
		Product: NewProductService(repos.Product, files),
	}
}
