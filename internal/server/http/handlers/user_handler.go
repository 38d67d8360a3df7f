package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pointsmall/pointsmall/internal/server/http/dto"
)

// UserHandler serves the authenticated user's own data.
type UserHandler struct {
	auth   AuthFacade
	points PointsFacade
	orders OrderFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(auth AuthFacade, points PointsFacade, orders OrderFacade) *UserHandler {
	return &UserHandler{auth: auth, points: points, orders: orders}
}

// Me handles GET /api/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), CurrentOpenID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Ledger handles GET /api/me/points-ledger.
func (h *UserHandler) Ledger(c *gin.Context) {
	page, pageSize := PageParams(c)
	entries, total, err := h.points.Ledger(c.Request.Context(), CurrentOpenID(c), page, pageSize)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLedgerListResponse(entries, total, page, pageSize))
}

// Orders handles GET /api/me/orders.
func (h *UserHandler) Orders(c *gin.Context) {
	page, pageSize := PageParams(c)
	orders, total, err := h.orders.MyOrders(c.Request.Context(), CurrentOpenID(c), page, pageSize)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders, total, page, pageSize))
}

// Redeem handles POST /api/redeem.
func (h *UserHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	order, err := h.orders.Redeem(c.Request.Context(), CurrentOpenID(c), req.ProductID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}
