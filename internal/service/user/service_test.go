package user

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthurobs542/clock-timer/internal/domain/user"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}
	u.ID = uuid.NewString()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, page, limit int) ([]user.User, int64, error) {
	var users []user.User
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, int64(len(users)), nil
}

func TestCreateUserDefaultsToEmployee(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	created, err := svc.Create(context.Background(), user.CreateUserRequest{
		Email: "Jane.Doe@Example.com",
		Name:  " Jane Doe ",
	})
	require.NoError(t, err)

	assert.Equal(t, user.RoleEmployee, created.Role)
	assert.Equal(t, "jane.doe@example.com", created.Email)
	assert.Equal(t, "Jane Doe", created.Name)
	assert.True(t, created.IsActive)
}

func TestCreateUserRejectsTakenEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.Create(context.Background(), user.CreateUserRequest{
		Email: "jane@example.com",
		Name:  "Jane",
	})
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, err = svc.Create(context.Background(), user.CreateUserRequest{
		Email: strings.ToUpper("jane@example.com"),
		Name:  "Other Jane",
	})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.Create(context.Background(), user.CreateUserRequest{
		Email: "jane@example.com",
		Name:  "Jane",
		Role:  "SUPERUSER",
	})
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestUpdateUserNormalizesRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	created, err := svc.Create(context.Background(), user.CreateUserRequest{
		Email: "jane@example.com",
		Name:  "Jane",
	})
	require.NoError(t, err)

	role := "admin"
	updated, err := svc.Update(context.Background(), created.ID, user.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, updated.Role)

	bogus := "owner"
	_, err = svc.Update(context.Background(), created.ID, user.UpdateUserRequest{Role: &bogus})
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}
