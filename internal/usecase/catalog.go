package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
)

// CatalogUseCase manages the redeemable product catalog.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// CreateProduct validates and stores a new catalog item.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	if strings.TrimSpace(p.Name) == "" || p.PointsCost <= 0 {
		return nil, domainErrors.ErrInvalidAdjustment
	}
	if p.Stock < model.StockUnlimited {
		return nil, domainErrors.ErrInvalidAdjustment
	}
	return u.products.Create(ctx, p)
}

// UpdateProduct applies a partial update; nil patch fields stay untouched.
func (u *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, patch repository.ProductPatch) (*model.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domainErrors.ErrInvalidAdjustment
	}
	if patch.PointsCost != nil && *patch.PointsCost <= 0 {
		return nil, domainErrors.ErrInvalidAdjustment
	}
	if patch.Stock != nil && *patch.Stock < model.StockUnlimited {
		return nil, domainErrors.ErrInvalidAdjustment
	}
	return u.products.Update(ctx, id, patch)
}

// Product fetches a single product by id.
func (u *CatalogUseCase) Product(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// ActiveProducts lists listed products only, newest first.
func (u *CatalogUseCase) ActiveProducts(ctx context.Context) ([]model.Product, error) {
	return u.products.ListActive(ctx)
}

// AllProducts lists the whole catalog including delisted items.
func (u *CatalogUseCase) AllProducts(ctx context.Context) ([]model.Product, error) {
	return u.products.ListAll(ctx)
}
