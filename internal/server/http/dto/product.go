package dto

import (
	"time"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// ProductCreateRequest describes a new catalog item.
type ProductCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	PointsCost  int64   `json:"points_cost" binding:"required"`
	Stock       *int64  `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

// ProductUpdateRequest carries a partial catalog update. Absent fields are
// left untouched.
type ProductUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	PointsCost  *int64  `json:"points_cost"`
	Stock       *int64  `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

// ProductResponse is the public projection of a catalog item.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	PointsCost  int64     `json:"points_cost"`
	Stock       int64     `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductListResponse is a collection of catalog items.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

func NewProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		PointsCost:  p.PointsCost,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func NewProductListResponse(products []model.Product) ProductListResponse {
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, NewProductResponse(&products[i]))
	}
	return ProductListResponse{Items: items}
}
