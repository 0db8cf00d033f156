package domain

import (
	"bazaar/utils"
	"context"
)

type AuthResult struct {
	Token string
	User  *User
}

type AuthUseCase interface {
	GetTokenManager() *utils.JWTManager
	Register(ctx context.Context, email, password, name, role string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*User, error)
}
