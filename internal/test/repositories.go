package test

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	Next  int64
	Err   error

	ListFn func(context.Context, string, int, int) ([]model.User, int64, error)
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{Users: make(map[string]*model.User), Next: 1}
}

// GetOrCreate returns the stored user or registers a fresh one.
func (s *UserRepositoryStub) GetOrCreate(ctx context.Context, openID string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if user, ok := s.Users[openID]; ok {
		return user, nil
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, OpenID: openID, CreatedAt: time.Unix(0, 0)}
	s.Next++
	s.Users[openID] = user
	return user, nil
}

// GetByOpenID fetches user by openid or returns not found.
func (s *UserRepositoryStub) GetByOpenID(ctx context.Context, openID string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[openID]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns stored users filtered by keyword.
func (s *UserRepositoryStub) List(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, keyword, page, pageSize)
	}
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var users []model.User
	for _, u := range s.Users {
		if keyword == "" || strings.Contains(u.OpenID, keyword) {
			users = append(users, *u)
		}
	}
	return users, int64(len(users)), nil
}

// AdjustCall stores information about ledger Adjust invocations.
type AdjustCall struct {
	OpenID   string
	Delta    int64
	Kind     model.LedgerKind
	Reason   string
	Operator string
	RefID    *string
}

// LedgerRepositoryStub allows tests to customize ledger behaviour.
type LedgerRepositoryStub struct {
	AdjustFn     func(context.Context, string, int64, model.LedgerKind, string, string, *string) (*model.LedgerEntry, error)
	ListByUserFn func(context.Context, string, int, int) ([]model.LedgerEntry, int64, error)
	SumDeltasFn  func(context.Context, string) (int64, error)

	Adjusts []AdjustCall
	Entries []model.LedgerEntry
	Sum     int64
}

// Adjust tracks invocations and returns configured responses.
func (s *LedgerRepositoryStub) Adjust(ctx context.Context, openID string, delta int64, kind model.LedgerKind, reason, operator string, refID *string) (*model.LedgerEntry, error) {
	s.Adjusts = append(s.Adjusts, AdjustCall{OpenID: openID, Delta: delta, Kind: kind, Reason: reason, Operator: operator, RefID: refID})
	if s.AdjustFn != nil {
		return s.AdjustFn(ctx, openID, delta, kind, reason, operator, refID)
	}
	return &model.LedgerEntry{ID: int64(len(s.Adjusts)), OpenID: openID, Delta: delta, BalanceAfter: delta, Kind: kind, Reason: reason, Operator: operator, RefID: refID}, nil
}

// ListByUser returns configured entries.
func (s *LedgerRepositoryStub) ListByUser(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, openID, page, pageSize)
	}
	return s.Entries, int64(len(s.Entries)), nil
}

// SumDeltas returns the configured aggregate.
func (s *LedgerRepositoryStub) SumDeltas(ctx context.Context, openID string) (int64, error) {
	if s.SumDeltasFn != nil {
		return s.SumDeltasFn(ctx, openID)
	}
	return s.Sum, nil
}

// ProductRepositoryStub stores products in-memory for tests.
type ProductRepositoryStub struct {
	Products map[int64]*model.Product
	Next     int64
	Err      error

	UpdateFn func(context.Context, int64, repository.ProductPatch) (*model.Product, error)
}

// NewProductRepositoryStub constructs stub repository with initialized maps.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{Products: make(map[int64]*model.Product), Next: 1}
}

// Create assigns an identifier and stores the product.
func (s *ProductRepositoryStub) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Products == nil {
		s.Products = make(map[int64]*model.Product)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *p
	stored.ID = s.Next
	s.Next++
	s.Products[stored.ID] = &stored
	return &stored, nil
}

// Update applies the patch to the stored product.
func (s *ProductRepositoryStub) Update(ctx context.Context, id int64, patch repository.ProductPatch) (*model.Product, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, &domainErrors.ProductNotFoundError{ProductID: id}
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.ImageURL != nil {
		p.ImageURL = patch.ImageURL
	}
	if patch.PointsCost != nil {
		p.PointsCost = *patch.PointsCost
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	return p, nil
}

// GetByID fetches product by identifier or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		return p, nil
	}
	return nil, &domainErrors.ProductNotFoundError{ProductID: id}
}

// ListActive returns stored products with the active flag set.
func (s *ProductRepositoryStub) ListActive(ctx context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var products []model.Product
	for _, p := range s.Products {
		if p.IsActive {
			products = append(products, *p)
		}
	}
	return products, nil
}

// ListAll returns every stored product.
func (s *ProductRepositoryStub) ListAll(ctx context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var products []model.Product
	for _, p := range s.Products {
		products = append(products, *p)
	}
	return products, nil
}

// OrderRepositoryStub allows tests to customize order behaviour.
type OrderRepositoryStub struct {
	RedeemFn           func(context.Context, string, int64) (*model.RedeemOrder, error)
	FulfillFn          func(context.Context, string) (*model.RedeemOrder, error)
	CancelFn           func(context.Context, string) (*model.RedeemOrder, error)
	CancelWithRefundFn func(context.Context, string, string) (*model.RedeemOrder, error)
	GetByNumberFn      func(context.Context, string) (*model.RedeemOrder, error)
	ListByUserFn       func(context.Context, string, int, int) ([]model.RedeemOrder, int64, error)
	ListFn             func(context.Context, *model.OrderStatus, int, int) ([]model.RedeemOrder, int64, error)

	Orders      []model.RedeemOrder
	Redeemed    []string
	Fulfilled   []string
	Cancelled   []string
	RefundCalls []struct {
		OrderNo  string
		Operator string
	}
}

// Redeem tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Redeem(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error) {
	s.Redeemed = append(s.Redeemed, openID)
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, openID, productID)
	}
	return &model.RedeemOrder{OrderNo: fmt.Sprintf("R%d", len(s.Redeemed)), OpenID: openID, ProductID: productID, Status: model.OrderStatusPending}, nil
}

// Fulfill marks the order fulfilled via override or stored slice.
func (s *OrderRepositoryStub) Fulfill(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	s.Fulfilled = append(s.Fulfilled, orderNo)
	if s.FulfillFn != nil {
		return s.FulfillFn(ctx, orderNo)
	}
	return &model.RedeemOrder{OrderNo: orderNo, Status: model.OrderStatusFulfilled}, nil
}

// Cancel marks the order cancelled without refund.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	s.Cancelled = append(s.Cancelled, orderNo)
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderNo)
	}
	return &model.RedeemOrder{OrderNo: orderNo, Status: model.OrderStatusCancelled}, nil
}

// CancelWithRefund records the refund call.
func (s *OrderRepositoryStub) CancelWithRefund(ctx context.Context, orderNo, operator string) (*model.RedeemOrder, error) {
	s.RefundCalls = append(s.RefundCalls, struct {
		OrderNo  string
		Operator string
	}{orderNo, operator})
	if s.CancelWithRefundFn != nil {
		return s.CancelWithRefundFn(ctx, orderNo, operator)
	}
	return &model.RedeemOrder{OrderNo: orderNo, Status: model.OrderStatusCancelled}, nil
}

// GetByNumber returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, orderNo)
	}
	for _, o := range s.Orders {
		if o.OrderNo == orderNo {
			order := o
			return &order, nil
		}
	}
	return nil, &domainErrors.OrderNotFoundError{OrderNo: orderNo}
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, openID string, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, openID, page, pageSize)
	}
	var orders []model.RedeemOrder
	for _, o := range s.Orders {
		if o.OpenID == openID {
			orders = append(orders, o)
		}
	}
	return orders, int64(len(orders)), nil
}

// List returns all configured orders, optionally filtered by status.
func (s *OrderRepositoryStub) List(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, status, page, pageSize)
	}
	var orders []model.RedeemOrder
	for _, o := range s.Orders {
		if status == nil || o.Status == *status {
			orders = append(orders, o)
		}
	}
	return orders, int64(len(orders)), nil
}

var (
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.LedgerRepository  = (*LedgerRepositoryStub)(nil)
	_ repository.ProductRepository = (*ProductRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
)
