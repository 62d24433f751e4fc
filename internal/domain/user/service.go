package user

import (
	"context"
)

// Service defines account operations behind the user endpoints.
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	List(ctx context.Context, page, limit int) (UserListResponse, error)
}
