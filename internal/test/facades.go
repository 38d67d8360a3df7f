package test

import (
	"context"
	"sync"

	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	LoginWithCodeFn func(context.Context, string) (*model.User, string, error)
	AdminLoginFn    func(context.Context, string, string) (string, error)
	MeFn            func(context.Context, string) (*model.User, error)
	UsersFn         func(context.Context, string, int, int) ([]model.User, int64, error)
}

// LoginWithCode returns a user and token for successful login scenarios.
func (s AuthFacadeStub) LoginWithCode(ctx context.Context, code string) (*model.User, string, error) {
	if s.LoginWithCodeFn != nil {
		return s.LoginWithCodeFn(ctx, code)
	}
	return &model.User{OpenID: "openid-1"}, "token", nil
}

// AdminLogin returns a token for successful admin login scenarios.
func (s AuthFacadeStub) AdminLogin(ctx context.Context, username, password string) (string, error) {
	if s.AdminLoginFn != nil {
		return s.AdminLoginFn(ctx, username, password)
	}
	return "admin-token", nil
}

// Me returns the stored profile.
func (s AuthFacadeStub) Me(ctx context.Context, openID string) (*model.User, error) {
	if s.MeFn != nil {
		return s.MeFn(ctx, openID)
	}
	return &model.User{OpenID: openID, PointsBalance: 100}, nil
}

// Users returns configured user pages.
func (s AuthFacadeStub) Users(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, keyword, page, pageSize)
	}
	return []model.User{{OpenID: "openid-1"}}, 1, nil
}

// PointsFacadeStub simulates ledger operations.
type PointsFacadeStub struct {
	AdjustPointsFn func(context.Context, string, int64, string, string, *string) (*model.LedgerEntry, error)
	LedgerFn       func(context.Context, string, int, int) ([]model.LedgerEntry, int64, error)
	UserLedgerFn   func(context.Context, string, int, int) ([]model.LedgerEntry, int64, error)
}

// AdjustPoints applies the configured adjustment handler.
func (s PointsFacadeStub) AdjustPoints(ctx context.Context, openID string, delta int64, reason, operator string, refID *string) (*model.LedgerEntry, error) {
	if s.AdjustPointsFn != nil {
		return s.AdjustPointsFn(ctx, openID, delta, reason, operator, refID)
	}
	return &model.LedgerEntry{OpenID: openID, Delta: delta, BalanceAfter: delta, Reason: reason, Operator: operator}, nil
}

// Ledger returns the configured page of entries.
func (s PointsFacadeStub) Ledger(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	if s.LedgerFn != nil {
		return s.LedgerFn(ctx, openID, page, pageSize)
	}
	return []model.LedgerEntry{{OpenID: openID, Delta: 10}}, 1, nil
}

// UserLedger returns the configured page of entries for an existing user.
func (s PointsFacadeStub) UserLedger(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	if s.UserLedgerFn != nil {
		return s.UserLedgerFn(ctx, openID, page, pageSize)
	}
	return []model.LedgerEntry{{OpenID: openID, Delta: 10}}, 1, nil
}

// CatalogFacadeStub simulates catalog operations.
type CatalogFacadeStub struct {
	ActiveProductsFn func(context.Context) ([]model.Product, error)
	AllProductsFn    func(context.Context) ([]model.Product, error)
	ProductFn        func(context.Context, int64) (*model.Product, error)
	CreateProductFn  func(context.Context, *model.Product) (*model.Product, error)
	UpdateProductFn  func(context.Context, int64, repository.ProductPatch) (*model.Product, error)
}

// ActiveProducts returns the configured catalog page.
func (s CatalogFacadeStub) ActiveProducts(ctx context.Context) ([]model.Product, error) {
	if s.ActiveProductsFn != nil {
		return s.ActiveProductsFn(ctx)
	}
	return []model.Product{{ID: 1, Name: "mug", PointsCost: 100, Stock: model.StockUnlimited, IsActive: true}}, nil
}

// AllProducts returns every configured product.
func (s CatalogFacadeStub) AllProducts(ctx context.Context) ([]model.Product, error) {
	if s.AllProductsFn != nil {
		return s.AllProductsFn(ctx)
	}
	return []model.Product{{ID: 1, Name: "mug", PointsCost: 100}}, nil
}

// Product returns the configured product.
func (s CatalogFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "mug", PointsCost: 100, IsActive: true}, nil
}

// CreateProduct echoes the product back with an identifier.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, p)
	}
	created := *p
	created.ID = 1
	return &created, nil
}

// UpdateProduct applies configured update handler.
func (s CatalogFacadeStub) UpdateProduct(ctx context.Context, id int64, patch repository.ProductPatch) (*model.Product, error) {
	if s.UpdateProductFn != nil {
		return s.UpdateProductFn(ctx, id, patch)
	}
	return &model.Product{ID: id, Name: "mug", PointsCost: 100}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	RedeemFn       func(context.Context, string, int64) (*model.RedeemOrder, error)
	MyOrdersFn     func(context.Context, string, int, int) ([]model.RedeemOrder, int64, error)
	OrdersFn       func(context.Context, *model.OrderStatus, int, int) ([]model.RedeemOrder, int64, error)
	OrderFn        func(context.Context, string) (*model.RedeemOrder, error)
	FulfillOrderFn func(context.Context, string) (*model.RedeemOrder, error)
	CancelOrderFn  func(context.Context, string, string, bool) (*model.RedeemOrder, error)
}

// Redeem delegates to provided function or returns a pending order.
func (s OrderFacadeStub) Redeem(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, openID, productID)
	}
	return &model.RedeemOrder{OrderNo: "R1", OpenID: openID, ProductID: productID, Status: model.OrderStatusPending}, nil
}

// MyOrders returns the configured page of orders.
func (s OrderFacadeStub) MyOrders(ctx context.Context, openID string, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	if s.MyOrdersFn != nil {
		return s.MyOrdersFn(ctx, openID, page, pageSize)
	}
	return []model.RedeemOrder{{OrderNo: "R1", OpenID: openID}}, 1, nil
}

// Orders returns the configured admin order page.
func (s OrderFacadeStub) Orders(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, status, page, pageSize)
	}
	return []model.RedeemOrder{{OrderNo: "R1"}}, 1, nil
}

// Order returns the configured order.
func (s OrderFacadeStub) Order(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderNo)
	}
	return &model.RedeemOrder{OrderNo: orderNo, Status: model.OrderStatusPending}, nil
}

// FulfillOrder returns the configured fulfilled order.
func (s OrderFacadeStub) FulfillOrder(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	if s.FulfillOrderFn != nil {
		return s.FulfillOrderFn(ctx, orderNo)
	}
	return &model.RedeemOrder{OrderNo: orderNo, Status: model.OrderStatusFulfilled}, nil
}

// CancelOrder returns the configured cancelled order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderNo, operator string, refund bool) (*model.RedeemOrder, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, orderNo, operator, refund)
	}
	return &model.RedeemOrder{OrderNo: orderNo, Status: model.OrderStatusCancelled}, nil
}

// MallFacadeStub aggregates facade dependencies for HTTP layer tests.
type MallFacadeStub struct {
	AuthFacadeStub
	PointsFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
}

// TokenParserStub implements middleware token parsing contracts.
type TokenParserStub struct {
	OpenID   string
	Admin    string
	UserErr  error
	AdminErr error
}

// ParseUserToken either returns the predefined openid or error.
func (s TokenParserStub) ParseUserToken(ctx context.Context, token string) (string, error) {
	if s.UserErr != nil {
		return "", s.UserErr
	}
	return s.OpenID, nil
}

// ParseAdminToken either returns the predefined username or error.
func (s TokenParserStub) ParseAdminToken(token string) (string, error) {
	if s.AdminErr != nil {
		return "", s.AdminErr
	}
	return s.Admin, nil
}

// ReconcilerFacadeStub mimics worker interactions with the points facade.
type ReconcilerFacadeStub struct {
	UsersFn     func(context.Context, string, int, int) ([]model.User, int64, error)
	MeFn        func(context.Context, string) (*model.User, error)
	LedgerSumFn func(context.Context, string) (int64, error)

	UsersPages [][]model.User
	Sums       map[string]int64

	mu        sync.Mutex
	usersCall int
	sumCalls  []string
}

// Lock exposes internal mutex for external synchronization.
func (s *ReconcilerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *ReconcilerFacadeStub) Unlock() { s.mu.Unlock() }

// Users returns batches from the configured queue.
func (s *ReconcilerFacadeStub) Users(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, keyword, page, pageSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersCall < len(s.UsersPages) {
		users := s.UsersPages[s.usersCall]
		s.usersCall++
		return users, int64(len(users)), nil
	}
	return nil, 0, nil
}

// Me returns the user from the configured pages.
func (s *ReconcilerFacadeStub) Me(ctx context.Context, openID string) (*model.User, error) {
	if s.MeFn != nil {
		return s.MeFn(ctx, openID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, page := range s.UsersPages {
		for i := range page {
			if page[i].OpenID == openID {
				u := page[i]
				return &u, nil
			}
		}
	}
	return &model.User{OpenID: openID}, nil
}

// LedgerSum returns the configured aggregate for the user.
func (s *ReconcilerFacadeStub) LedgerSum(ctx context.Context, openID string) (int64, error) {
	if s.LedgerSumFn != nil {
		return s.LedgerSumFn(ctx, openID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sumCalls = append(s.sumCalls, openID)
	if s.Sums != nil {
		return s.Sums[openID], nil
	}
	return 0, nil
}

// SumCalls returns a copy of recorded LedgerSum invocations.
func (s *ReconcilerFacadeStub) SumCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sumCalls))
	copy(out, s.sumCalls)
	return out
}
