package usecase

import (
	"context"

	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
)

// OrderUseCase encapsulates the redemption order lifecycle.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Redeem exchanges points for one unit of the product, producing a pending
// order. All validation and locking happens inside the storage transaction.
func (u *OrderUseCase) Redeem(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error) {
	return u.orders.Redeem(ctx, openID, productID)
}

// Fulfill marks a pending order as shipped.
func (u *OrderUseCase) Fulfill(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	return u.orders.Fulfill(ctx, orderNo)
}

// Cancel cancels a pending order. With refund=true the user's points come
// back and stock is restored; otherwise it is a plain status transition.
func (u *OrderUseCase) Cancel(ctx context.Context, orderNo, operator string, refund bool) (*model.RedeemOrder, error) {
	if refund {
		return u.orders.CancelWithRefund(ctx, orderNo, operator)
	}
	return u.orders.Cancel(ctx, orderNo)
}

// Get fetches an order by its number.
func (u *OrderUseCase) Get(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	return u.orders.GetByNumber(ctx, orderNo)
}

// ListByUser returns a page of the user's orders newest-first.
func (u *OrderUseCase) ListByUser(ctx context.Context, openID string, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return u.orders.ListByUser(ctx, openID, page, pageSize)
}

// List returns a page over all orders, optionally filtered by status.
func (u *OrderUseCase) List(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return u.orders.List(ctx, status, page, pageSize)
}
