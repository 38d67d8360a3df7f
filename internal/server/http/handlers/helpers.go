package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/server/http/middleware"
	"github.com/pointsmall/pointsmall/internal/usecase"
)

// CurrentOpenID extracts the authenticated user openid from context.
func CurrentOpenID(c *gin.Context) string {
	val, ok := c.Get(middleware.OpenIDContextKey)
	if !ok {
		return ""
	}
	openID, _ := val.(string)
	return openID
}

// CurrentAdmin extracts the authenticated admin username from context.
func CurrentAdmin(c *gin.Context) string {
	val, ok := c.Get(middleware.AdminContextKey)
	if !ok {
		return ""
	}
	username, _ := val.(string)
	return username
}

// PageParams reads page and page_size query parameters, clamped to the
// allowed range so response envelopes echo the values actually used.
func PageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return usecase.NormalizePage(page, pageSize)
}

// WriteError maps domain errors to HTTP responses. Business rejections keep
// their context fields in the body so callers can act on them.
func WriteError(c *gin.Context, err error) {
	var insufficient *domainErrors.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "insufficient balance",
			"balance":  insufficient.Balance,
			"required": insufficient.Required,
		})
		return
	}

	var outOfStock *domainErrors.OutOfStockError
	if errors.As(err, &outOfStock) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "product out of stock",
			"product_id": outOfStock.ProductID,
		})
		return
	}

	var badState *domainErrors.InvalidOrderStateError
	if errors.As(err, &badState) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "order is not pending",
			"order_no": badState.OrderNo,
			"status":   badState.Status,
		})
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrProductNotActive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "product is not active"})
	case errors.Is(err, domainErrors.ErrInvalidAdjustment):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid adjustment"})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, domainErrors.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domainErrors.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domainErrors.ErrLockTimeout):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "try again later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
