package service

import (
	"bazaar/domain"
	"bazaar/utils"
	"context"
	"time"

	"github.com/google/uuid"
)

// baseTokenValidity is the lifetime of a login token. Elevated seller
// tokens live shorter; see NewOTPService wiring.
const baseTokenValidity = 7 * 24 * time.Hour

type authService struct {
	userRepo domain.UserRepository
	tokens   *utils.JWTManager
}

func NewAuthService(userRepo domain.UserRepository, secret string) domain.AuthUseCase {
	return &authService{
		userRepo: userRepo,
		tokens:   utils.NewJWTManager(secret, baseTokenValidity),
	}
}

func (s *authService) Register(ctx context.Context, email, password, name, role string) (*domain.AuthResult, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hashed,
		Name:     name,
		Role:     role,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return nil, domain.ErrInvalidCredentials
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{Token: token, User: user}, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *authService) GetTokenManager() *utils.JWTManager {
	return s.tokens
}
