package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arthurobs542/clock-timer/internal/domain/user"
)

type UserServiceImpl struct {
	repo user.Repository
}

func NewUserService(repo user.Repository) user.Service {
	return &UserServiceImpl{repo: repo}
}

// Create implements user.Service.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	role := user.RoleEmployee
	if req.Role != "" {
		var err error
		if role, err = user.ParseRole(req.Role); err != nil {
			return user.UserResponse{}, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check first for a friendly error; the unique constraint on email
	// still catches a concurrent duplicate.
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return user.UserResponse{}, user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	created, err := s.repo.Create(ctx, user.User{
		Email:    email,
		Name:     strings.TrimSpace(req.Name),
		Role:     role,
		IsActive: true,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return toResponse(created), nil
}

// GetByID implements user.Service.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return toResponse(u), nil
}

// Update implements user.Service.
func (s *UserServiceImpl) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role, err := user.ParseRole(*req.Role)
		if err != nil {
			return user.UserResponse{}, err
		}
		u.Role = role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	return toResponse(u), nil
}

// List implements user.Service.
func (s *UserServiceImpl) List(ctx context.Context, page, limit int) (user.UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return user.UserListResponse{}, err
	}

	responses := make([]user.UserResponse, len(users))
	for i, u := range users {
		responses[i] = toResponse(u)
	}

	return user.UserListResponse{
		Users: responses,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func toResponse(u user.User) user.UserResponse {
	return user.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
