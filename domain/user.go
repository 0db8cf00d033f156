package domain

import (
	"context"
	"errors"
	"time"
)

const (
	RoleUser   = "USER"
	RoleSeller = "SELLER"
	RoleAdmin  = "ADMIN"
)

// ValidRole reports whether role is one of the wire-level role values.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"` // max 50
	Role      string    `gorm:"not null;default:USER" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Products []Product `gorm:"foreignKey:SellerID" json:"products,omitempty"`
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetAllUsers(ctx context.Context) (*[]User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) error
}

type UserUseCase interface {
	GetAllUsers(ctx context.Context) (*[]User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}
