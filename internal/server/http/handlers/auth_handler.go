package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pointsmall/pointsmall/internal/server/http/dto"
)

// AuthHandler processes mini-program and admin logins.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// WxLogin handles POST /api/wx/login.
func (h *AuthHandler) WxLogin(c *gin.Context) {
	var req dto.WxLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	user, token, err := h.facade.LoginWithCode(c.Request.Context(), req.Code)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WxLoginResponse{SessionToken: token, OpenID: user.OpenID})
}

// AdminLogin handles POST /admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := h.facade.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdminLoginResponse{AdminToken: token, Username: req.Username})
}
