package app

import (
	"context"

	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
	"github.com/pointsmall/pointsmall/internal/usecase"
)

// PointsFacade aggregates the use cases behind one surface consumed by the
// HTTP layer and the reconciler worker.
type PointsFacade struct {
	auth    *usecase.AuthUseCase
	points  *usecase.PointsUseCase
	catalog *usecase.CatalogUseCase
	orders  *usecase.OrderUseCase
}

func NewPointsFacade(auth *usecase.AuthUseCase, points *usecase.PointsUseCase, catalog *usecase.CatalogUseCase, orders *usecase.OrderUseCase) *PointsFacade {
	return &PointsFacade{auth: auth, points: points, catalog: catalog, orders: orders}
}

func (f *PointsFacade) LoginWithCode(ctx context.Context, code string) (*model.User, string, error) {
	return f.auth.LoginWithCode(ctx, code)
}

func (f *PointsFacade) AdminLogin(ctx context.Context, username, password string) (string, error) {
	return f.auth.AdminLogin(ctx, username, password)
}

func (f *PointsFacade) ParseUserToken(ctx context.Context, token string) (string, error) {
	return f.auth.ParseUserToken(ctx, token)
}

func (f *PointsFacade) ParseAdminToken(token string) (string, error) {
	return f.auth.ParseAdminToken(token)
}

func (f *PointsFacade) Me(ctx context.Context, openID string) (*model.User, error) {
	return f.auth.Profile(ctx, openID)
}

func (f *PointsFacade) Users(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error) {
	return f.auth.Users(ctx, keyword, page, pageSize)
}

func (f *PointsFacade) AdjustPoints(ctx context.Context, openID string, delta int64, reason, operator string, refID *string) (*model.LedgerEntry, error) {
	return f.points.Adjust(ctx, openID, delta, reason, operator, refID)
}

func (f *PointsFacade) Ledger(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	return f.points.Ledger(ctx, openID, page, pageSize)
}

func (f *PointsFacade) UserLedger(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	return f.points.LedgerOfExistingUser(ctx, openID, page, pageSize)
}

func (f *PointsFacade) LedgerSum(ctx context.Context, openID string) (int64, error) {
	return f.points.LedgerSum(ctx, openID)
}

func (f *PointsFacade) ActiveProducts(ctx context.Context) ([]model.Product, error) {
	return f.catalog.ActiveProducts(ctx)
}

func (f *PointsFacade) AllProducts(ctx context.Context) ([]model.Product, error) {
	return f.catalog.AllProducts(ctx)
}

func (f *PointsFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Product(ctx, id)
}

func (f *PointsFacade) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	return f.catalog.CreateProduct(ctx, p)
}

func (f *PointsFacade) UpdateProduct(ctx context.Context, id int64, patch repository.ProductPatch) (*model.Product, error) {
	return f.catalog.UpdateProduct(ctx, id, patch)
}

func (f *PointsFacade) Redeem(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error) {
	return f.orders.Redeem(ctx, openID, productID)
}

func (f *PointsFacade) MyOrders(ctx context.Context, openID string, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	return f.orders.ListByUser(ctx, openID, page, pageSize)
}

func (f *PointsFacade) Orders(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	return f.orders.List(ctx, status, page, pageSize)
}

func (f *PointsFacade) Order(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	return f.orders.Get(ctx, orderNo)
}

func (f *PointsFacade) FulfillOrder(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	return f.orders.Fulfill(ctx, orderNo)
}

func (f *PointsFacade) CancelOrder(ctx context.Context, orderNo, operator string, refund bool) (*model.RedeemOrder, error) {
	return f.orders.Cancel(ctx, orderNo, operator, refund)
}
