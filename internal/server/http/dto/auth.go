package dto

// WxLoginRequest carries the mini-program login code.
type WxLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// WxLoginResponse returns the issued session token and resolved openid.
type WxLoginResponse struct {
	SessionToken string `json:"session_token"`
	OpenID       string `json:"openid"`
}

// AdminLoginRequest describes admin credential payload.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse returns the issued admin token.
type AdminLoginResponse struct {
	AdminToken string `json:"admin_token"`
	Username   string `json:"username"`
}
