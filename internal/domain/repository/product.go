package repository

import (
	"context"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// ProductPatch carries optional field updates for a product. Nil fields are
// left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	PointsCost  *int64
	Stock       *int64
	IsActive    *bool
}

// ProductRepository describes catalog persistence. Stock is additionally
// mutated by the redemption and compensation transactions in OrderRepository.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
}
