package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("not authorized to modify this product")
)

type Product struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `gorm:"not null;index" json:"category"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	SellerID    string    `gorm:"type:uuid;not null;index" json:"sellerId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Seller *User `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

// ProductUpdate carries partial updates; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	Category    *string
	Stock       *int
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetAllProducts(ctx context.Context) (*[]Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductsBySeller(ctx context.Context, sellerID string) (*[]Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type ProductUseCase interface {
	CreateProduct(ctx context.Context, sellerID string, product *Product) error
	GetAllProducts(ctx context.Context) (*[]Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductsBySeller(ctx context.Context, sellerID string) (*[]Product, error)
	UpdateProduct(ctx context.Context, id, sellerID string, update *ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id, sellerID string) error
}
