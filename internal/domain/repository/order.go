package repository

import (
	"context"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// OrderRepository describes redemption order persistence, including the two
// multi-row transactions of the system: Redeem (debit + stock decrement +
// order insert) and CancelWithRefund (credit + stock restore + cancel).
type OrderRepository interface {
	// Redeem atomically exchanges the product's price in points for one unit
	// of stock and creates a PENDING order with name/price snapshots.
	Redeem(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error)

	// Fulfill transitions a PENDING order to FULFILLED. No balance effect.
	Fulfill(ctx context.Context, orderNo string) (*model.RedeemOrder, error)

	// Cancel transitions a PENDING order to CANCELLED without any refund.
	Cancel(ctx context.Context, orderNo string) (*model.RedeemOrder, error)

	// CancelWithRefund reverses a PENDING order: credits the snapshot price
	// back, restores stock if the product still exists and is not unlimited,
	// and cancels the order, all atomically.
	CancelWithRefund(ctx context.Context, orderNo, operator string) (*model.RedeemOrder, error)

	GetByNumber(ctx context.Context, orderNo string) (*model.RedeemOrder, error)
	ListByUser(ctx context.Context, openID string, page, pageSize int) ([]model.RedeemOrder, int64, error)
	List(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error)
}
