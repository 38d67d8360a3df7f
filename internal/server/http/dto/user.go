package dto

import (
	"time"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// UserResponse is the public projection of a user account.
type UserResponse struct {
	OpenID        string    `json:"openid"`
	Nickname      *string   `json:"nickname"`
	AvatarURL     *string   `json:"avatar_url"`
	PointsBalance int64     `json:"points_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserListResponse is a paged collection of users.
type UserListResponse struct {
	Items    []UserResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		OpenID:        u.OpenID,
		Nickname:      u.Nickname,
		AvatarURL:     u.AvatarURL,
		PointsBalance: u.PointsBalance,
		CreatedAt:     u.CreatedAt,
	}
}

func NewUserListResponse(users []model.User, total int64, page, pageSize int) UserListResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return UserListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}
}
