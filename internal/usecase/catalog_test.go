package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
	testhelpers "github.com/pointsmall/pointsmall/internal/test"
)

func TestCatalogUseCaseCreateProduct(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewCatalogUseCase(repo)

	ctx := context.Background()
	created, err := uc.CreateProduct(ctx, &model.Product{Name: "mug", PointsCost: 100, Stock: 5, IsActive: true})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected identifier to be assigned")
	}
}

func TestCatalogUseCaseCreateProductValidation(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewCatalogUseCase(repo)

	ctx := context.Background()
	cases := []model.Product{
		{Name: "  ", PointsCost: 100},
		{Name: "mug", PointsCost: 0},
		{Name: "mug", PointsCost: -5},
		{Name: "mug", PointsCost: 100, Stock: -2},
	}
	for i, p := range cases {
		if _, err := uc.CreateProduct(ctx, &p); !errors.Is(err, domainErrors.ErrInvalidAdjustment) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if len(repo.Products) != 0 {
		t.Fatalf("expected nothing stored on rejected input")
	}
}

func TestCatalogUseCaseCreateProductUnlimitedStock(t *testing.T) {
	uc := NewCatalogUseCase(testhelpers.NewProductRepositoryStub())

	created, err := uc.CreateProduct(context.Background(), &model.Product{Name: "sticker", PointsCost: 10, Stock: model.StockUnlimited})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if !created.HasStock() {
		t.Fatalf("unlimited stock product must always have stock")
	}
}

func TestCatalogUseCaseUpdateProduct(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewCatalogUseCase(repo)

	ctx := context.Background()
	created, err := uc.CreateProduct(ctx, &model.Product{Name: "mug", PointsCost: 100, Stock: 5, IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cost := int64(150)
	active := false
	updated, err := uc.UpdateProduct(ctx, created.ID, repository.ProductPatch{PointsCost: &cost, IsActive: &active})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.PointsCost != 150 || updated.IsActive {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != "mug" {
		t.Fatalf("unpatched field changed: %q", updated.Name)
	}
}

func TestCatalogUseCaseUpdateProductValidation(t *testing.T) {
	uc := NewCatalogUseCase(testhelpers.NewProductRepositoryStub())

	ctx := context.Background()
	blank := "  "
	zero := int64(0)
	badStock := int64(-3)
	cases := []repository.ProductPatch{
		{Name: &blank},
		{PointsCost: &zero},
		{Stock: &badStock},
	}
	for i, patch := range cases {
		if _, err := uc.UpdateProduct(ctx, 1, patch); !errors.Is(err, domainErrors.ErrInvalidAdjustment) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCatalogUseCaseUpdateMissingProduct(t *testing.T) {
	uc := NewCatalogUseCase(testhelpers.NewProductRepositoryStub())

	name := "mug"
	_, err := uc.UpdateProduct(context.Background(), 77, repository.ProductPatch{Name: &name})
	var notFound *domainErrors.ProductNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
	if notFound.ProductID != 77 {
		t.Fatalf("unexpected product id %d", notFound.ProductID)
	}
}

func TestCatalogUseCaseListSplitsByActive(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewCatalogUseCase(repo)

	ctx := context.Background()
	if _, err := uc.CreateProduct(ctx, &model.Product{Name: "visible", PointsCost: 10, IsActive: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := uc.CreateProduct(ctx, &model.Product{Name: "hidden", PointsCost: 10}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	active, err := uc.ActiveProducts(ctx)
	if err != nil {
		t.Fatalf("active list failed: %v", err)
	}
	if len(active) != 1 || active[0].Name != "visible" {
		t.Fatalf("unexpected active products: %+v", active)
	}

	all, err := uc.AllProducts(ctx)
	if err != nil {
		t.Fatalf("all list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products in full catalog, got %d", len(all))
	}
}
