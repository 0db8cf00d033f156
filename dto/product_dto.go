package dto

import "bazaar/domain"

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=120"`
	Description string  `json:"description" binding:"omitempty,max=2000"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	ImageURL    string  `json:"image" binding:"omitempty,url"`
	Category    string  `json:"category" binding:"required,max=60"`
	Stock       *int    `json:"stock" binding:"omitempty,gte=0"`
}

func MapCreateProductRequest(req *CreateProductRequest) *domain.Product {
	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	return product
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	ImageURL    *string  `json:"image" binding:"omitempty,url"`
	Category    *string  `json:"category" binding:"omitempty,max=60"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

func MapUpdateProductRequest(req *UpdateProductRequest) *domain.ProductUpdate {
	return &domain.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Stock:       req.Stock,
	}
}
