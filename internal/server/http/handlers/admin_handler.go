package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
	"github.com/pointsmall/pointsmall/internal/server/http/dto"
)

// AdminHandler serves the back-office endpoints.
type AdminHandler struct {
	facade MallFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade MallFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(c *gin.Context) {
	page, pageSize := PageParams(c)
	keyword := strings.TrimSpace(c.Query("keyword"))

	users, total, err := h.facade.Users(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users, total, page, pageSize))
}

// UserLedger handles GET /admin/users/:openid/points-ledger.
func (h *AdminHandler) UserLedger(c *gin.Context) {
	page, pageSize := PageParams(c)
	entries, total, err := h.facade.UserLedger(c.Request.Context(), c.Param("openid"), page, pageSize)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLedgerListResponse(entries, total, page, pageSize))
}

// AdjustPoints handles POST /admin/users/:openid/points-adjust.
func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	var req dto.PointsAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta and reason are required"})
		return
	}

	entry, err := h.facade.AdjustPoints(c.Request.Context(), c.Param("openid"), req.Delta, req.Reason, CurrentAdmin(c), nil)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLedgerEntryResponse(entry))
}

// CreateProduct handles POST /admin/products.
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and points_cost are required"})
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PointsCost:  req.PointsCost,
		Stock:       model.StockUnlimited,
		IsActive:    true,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	created, err := h.facade.CreateProduct(c.Request.Context(), product)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProductResponse(created))
}

// UpdateProduct handles PUT /admin/products/:id.
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req dto.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := repository.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PointsCost:  req.PointsCost,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	}

	updated, err := h.facade.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(updated))
}

// Products handles GET /admin/products. Inactive products are included.
func (h *AdminHandler) Products(c *gin.Context) {
	products, err := h.facade.AllProducts(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductListResponse(products))
}

// Orders handles GET /admin/orders.
func (h *AdminHandler) Orders(c *gin.Context) {
	page, pageSize := PageParams(c)

	var status *model.OrderStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s := model.OrderStatus(strings.ToUpper(raw))
		switch s {
		case model.OrderStatusPending, model.OrderStatusFulfilled, model.OrderStatusCancelled:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
			return
		}
	}

	orders, total, err := h.facade.Orders(c.Request.Context(), status, page, pageSize)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders, total, page, pageSize))
}

// Order handles GET /admin/orders/:order_no.
func (h *AdminHandler) Order(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// FulfillOrder handles PUT /admin/orders/:order_no/fulfill.
func (h *AdminHandler) FulfillOrder(c *gin.Context) {
	order, err := h.facade.FulfillOrder(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// CancelOrder handles PUT /admin/orders/:order_no/cancel.
func (h *AdminHandler) CancelOrder(c *gin.Context) {
	var req dto.OrderCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("order_no"), CurrentAdmin(c), req.Refund)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}
