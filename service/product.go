package service

import (
	"bazaar/domain"
	"context"

	"github.com/google/uuid"
)

type productService struct {
	productRepo domain.ProductRepository
}

func NewProductService(productRepo domain.ProductRepository) domain.ProductUseCase {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, sellerID string, product *domain.Product) error {
	product.ID = uuid.NewString()
	product.SellerID = sellerID
	return s.productRepo.CreateProduct(ctx, product)
}

func (s *productService) GetAllProducts(ctx context.Context) (*[]domain.Product, error) {
	return s.productRepo.GetAllProducts(ctx)
}

func (s *productService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.GetProductByID(ctx, id)
}

func (s *productService) GetProductsBySeller(ctx context.Context, sellerID string) (*[]domain.Product, error) {
	return s.productRepo.GetProductsBySeller(ctx, sellerID)
}

func (s *productService) UpdateProduct(ctx context.Context, id, sellerID string, update *domain.ProductUpdate) (*domain.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, domain.ErrNotProductOwner
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}

	// Seller association is not persisted back.
	product.Seller = nil
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetProductByID(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, id, sellerID string) error {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if product.SellerID != sellerID {
		return domain.ErrNotProductOwner
	}
	return s.productRepo.DeleteProduct(ctx, id)
}
