package dto

import (
	"time"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// RedeemRequest identifies the product being redeemed.
type RedeemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// OrderCancelRequest controls whether a cancellation refunds the points.
type OrderCancelRequest struct {
	Refund bool `json:"refund"`
}

// OrderResponse is the public projection of a redemption order.
type OrderResponse struct {
	OrderNo     string            `json:"order_no"`
	OpenID      string            `json:"openid"`
	ProductID   int64             `json:"product_id"`
	ProductName string            `json:"product_name"`
	PointsCost  int64             `json:"points_cost"`
	Status      model.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OrderListResponse is a paged collection of orders.
type OrderListResponse struct {
	Items    []OrderResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func NewOrderResponse(o *model.RedeemOrder) OrderResponse {
	return OrderResponse{
		OrderNo:     o.OrderNo,
		OpenID:      o.OpenID,
		ProductID:   o.ProductID,
		ProductName: o.ProductName,
		PointsCost:  o.PointsCost,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func NewOrderListResponse(orders []model.RedeemOrder, total int64, page, pageSize int) OrderListResponse {
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, NewOrderResponse(&orders[i]))
	}
	return OrderListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}
}
