package handlers

import (
	"context"

	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	LoginWithCode(ctx context.Context, code string) (*model.User, string, error)
	AdminLogin(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, openID string) (*model.User, error)
	Users(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error)
}

// PointsFacade provides balance and ledger operations.
type PointsFacade interface {
	AdjustPoints(ctx context.Context, openID string, delta int64, reason, operator string, refID *string) (*model.LedgerEntry, error)
	Ledger(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error)
	UserLedger(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error)
}

// CatalogFacade provides product catalog operations.
type CatalogFacade interface {
	ActiveProducts(ctx context.Context) ([]model.Product, error)
	AllProducts(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch repository.ProductPatch) (*model.Product, error)
}

// OrderFacade provides redemption order operations.
type OrderFacade interface {
	Redeem(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error)
	MyOrders(ctx context.Context, openID string, page, pageSize int) ([]model.RedeemOrder, int64, error)
	Orders(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error)
	Order(ctx context.Context, orderNo string) (*model.RedeemOrder, error)
	FulfillOrder(ctx context.Context, orderNo string) (*model.RedeemOrder, error)
	CancelOrder(ctx context.Context, orderNo, operator string, refund bool) (*model.RedeemOrder, error)
}

// MallFacade aggregates the full set of operations used across handlers.
type MallFacade interface {
	AuthFacade
	PointsFacade
	CatalogFacade
	OrderFacade
}
