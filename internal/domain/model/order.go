package model

import "time"

// OrderStatus describes the redemption order lifecycle. PENDING is the only
// non-terminal state: it moves to FULFILLED on shipment or to CANCELLED,
// never back.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// RedeemOrder records one exchange of points for a product unit. ProductName
// and PointsCost are snapshots taken at redemption time so later catalog
// edits do not rewrite history.
type RedeemOrder struct {
	ID          int64
	OrderNo     string
	OpenID      string
	ProductID   int64
	ProductName string
	PointsCost  int64
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
