package repository

import (
	"context"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	GetOrCreate(ctx context.Context, openID string) (*model.User, error)
	GetByOpenID(ctx context.Context, openID string) (*model.User, error)
	List(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error)
}
