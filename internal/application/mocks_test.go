package application_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/neurixa/neurixa/internal/domain/user"
)

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, a user.Account) (user.Account, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(user.Account), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (user.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.Account), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (user.Account, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(user.Account), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (user.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.Account), args.Error(1)
}

func (m *MockUserRepository) FindPage(ctx context.Context, filter user.ListFilter) (user.Page, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(user.Page), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHasher implements application.PasswordHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(raw string) (string, error) {
	args := m.Called(raw)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(raw, hash string) bool {
	args := m.Called(raw, hash)
	return args.Bool(0)
}

// MockDenylist implements application.TokenDenylist
type MockDenylist struct {
	mock.Mock
}

func (m *MockDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	args := m.Called(ctx, token, expiresAt)
	return args.Error(0)
}

func (m *MockDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}
