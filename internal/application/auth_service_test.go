package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/internal/domain/user"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/helpers"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T, repo *MockUserRepository, hasher *MockHasher, denylist *MockDenylist) *application.AuthService {
	t.Helper()
	codec, err := helpers.NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return application.NewAuthService(repo, hasher, codec, denylist, logger)
}

func account(t *testing.T, username string, role user.Role) user.Account {
	t.Helper()
	a, err := user.New(username, username+"@example.com", "stored-hash", role)
	require.NoError(t, err)
	return a
}

func notFound() error { return apperr.NotFound("User not found") }

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues token", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		alice := account(t, "alice", user.RoleUser)
		repo.On("FindByUsername", ctx, "alice").Return(alice, nil).Once()
		hasher.On("Verify", "pw", "stored-hash").Return(true).Once()

		got, token, err := svc.Login(ctx, "alice", "pw")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.NotEmpty(t, token)
		repo.AssertExpectations(t)
	})

	t.Run("unknown user burns a hash comparison", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		repo.On("FindByUsername", ctx, "ghost").Return(user.Account{}, notFound()).Once()
		hasher.On("Verify", "pw", helpers.DummyHash).Return(false).Once()

		_, _, err := svc.Login(ctx, "ghost", "pw")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidCredentials))
		hasher.AssertExpectations(t)
	})

	t.Run("unknown user and wrong password share one message", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		repo.On("FindByUsername", ctx, "ghost").Return(user.Account{}, notFound()).Once()
		hasher.On("Verify", mock.Anything, mock.Anything).Return(false)

		_, _, errGhost := svc.Login(ctx, "ghost", "pw")

		alice := account(t, "alice", user.RoleUser)
		repo.On("FindByUsername", ctx, "alice").Return(alice, nil).Once()
		repo.On("Save", ctx, mock.Anything).Return(alice, nil).Once()

		_, _, errWrong := svc.Login(ctx, "alice", "wrong")

		assert.EqualError(t, errWrong, errGhost.Error())
	})

	t.Run("locked account rejected before password check", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		locked := account(t, "bob", user.RoleUser).Lock()
		repo.On("FindByUsername", ctx, "bob").Return(locked, nil).Once()

		_, _, err := svc.Login(ctx, "bob", "pw")
		assert.True(t, apperr.IsKind(err, apperr.KindLocked))
		hasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("wrong password persists the failed attempt", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		alice := account(t, "alice", user.RoleUser)
		repo.On("FindByUsername", ctx, "alice").Return(alice, nil).Once()
		hasher.On("Verify", "wrong", "stored-hash").Return(false).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(a user.Account) bool {
			return a.FailedLoginAttempts == 1 && !a.Locked
		})).Return(alice, nil).Once()

		_, _, err := svc.Login(ctx, "alice", "wrong")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidCredentials))
		repo.AssertExpectations(t)
	})

	t.Run("fifth failure locks the account", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		alice := account(t, "alice", user.RoleUser)
		alice.FailedLoginAttempts = user.MaxFailedAttempts - 1
		repo.On("FindByUsername", ctx, "alice").Return(alice, nil).Once()
		hasher.On("Verify", "wrong", "stored-hash").Return(false).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(a user.Account) bool {
			return a.Locked && a.FailedLoginAttempts == user.MaxFailedAttempts
		})).Return(alice, nil).Once()

		_, _, err := svc.Login(ctx, "alice", "wrong")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidCredentials),
			"the locking attempt itself still reads as bad credentials")
		repo.AssertExpectations(t)
	})

	t.Run("success resets a nonzero counter", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		alice := account(t, "alice", user.RoleUser)
		alice.FailedLoginAttempts = 3
		reset := alice.ResetFailedLogin()
		repo.On("FindByUsername", ctx, "alice").Return(alice, nil).Once()
		hasher.On("Verify", "pw", "stored-hash").Return(true).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(a user.Account) bool {
			return a.FailedLoginAttempts == 0
		})).Return(reset, nil).Once()

		got, _, err := svc.Login(ctx, "alice", "pw")
		require.NoError(t, err)
		assert.Zero(t, got.FailedLoginAttempts)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		repo.On("FindByUsername", ctx, "alice").Return(account(t, "alice", user.RoleUser), nil).Once()

		_, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		repo.On("FindByUsername", ctx, "alice").Return(user.Account{}, notFound()).Once()
		repo.On("FindByEmail", ctx, "alice@example.com").Return(account(t, "other", user.RoleUser), nil).Once()

		_, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("success returns account and token", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		repo.On("FindByUsername", ctx, "alice").Return(user.Account{}, notFound()).Once()
		repo.On("FindByEmail", ctx, "alice@example.com").Return(user.Account{}, notFound()).Once()
		hasher.On("Hash", "pw").Return("hashed", nil).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(a user.Account) bool {
			return a.Username == "alice" && a.Role == user.RoleUser && a.PasswordHash == "hashed"
		})).Return(account(t, "alice", user.RoleUser), nil).Once()

		got, token, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.NotEmpty(t, token)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token is revoked until expiry", func(t *testing.T) {
		denylist := new(MockDenylist)
		svc := newService(t, new(MockUserRepository), new(MockHasher), denylist)

		token, err := svc.Codec.Sign("alice", "USER")
		require.NoError(t, err)

		denylist.On("Revoke", ctx, token, mock.MatchedBy(func(exp time.Time) bool {
			return exp.After(time.Now())
		})).Return(nil).Once()

		require.NoError(t, svc.Logout(ctx, token))
		denylist.AssertExpectations(t)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		denylist := new(MockDenylist)
		svc := newService(t, new(MockUserRepository), new(MockHasher), denylist)

		err := svc.Logout(ctx, "garbage")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
		denylist.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("super admin is immune", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		target := account(t, "root", user.RoleSuperAdmin)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()

		err := svc.DeleteUser(ctx, target.ID, account(t, "root2", user.RoleSuperAdmin))
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("plain user may only delete self", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		target := account(t, "bob", user.RoleUser)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()

		err := svc.DeleteUser(ctx, target.ID, account(t, "alice", user.RoleUser))
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("self delete succeeds", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		me := account(t, "alice", user.RoleUser)
		repo.On("FindByID", ctx, me.ID).Return(me, nil).Once()
		repo.On("DeleteByID", ctx, me.ID).Return(nil).Once()

		require.NoError(t, svc.DeleteUser(ctx, me.ID, me))
	})

	t.Run("last admin is protected when no super admin exists", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		target := account(t, "admin", user.RoleAdmin)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()
		repo.On("CountByRole", ctx, user.RoleAdmin).Return(int64(1), nil).Once()
		repo.On("CountByRole", ctx, user.RoleSuperAdmin).Return(int64(0), nil).Once()

		err := svc.DeleteUser(ctx, target.ID, target)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("last admin deletable when a super admin remains", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		target := account(t, "admin", user.RoleAdmin)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()
		repo.On("CountByRole", ctx, user.RoleAdmin).Return(int64(1), nil).Once()
		repo.On("CountByRole", ctx, user.RoleSuperAdmin).Return(int64(1), nil).Once()
		repo.On("DeleteByID", ctx, target.ID).Return(nil).Once()

		require.NoError(t, svc.DeleteUser(ctx, target.ID, account(t, "root", user.RoleSuperAdmin)))
	})
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("stale session rejected before anything else", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		requestor := account(t, "admin", user.RoleAdmin)
		_, err := svc.ChangeRole(ctx, "target-id", user.RoleUser, requestor, user.RoleSuperAdmin)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("admin may promote user to admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		requestor := account(t, "admin", user.RoleAdmin)
		target := account(t, "bob", user.RoleUser)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(a user.Account) bool {
			return a.Role == user.RoleAdmin
		})).Return(target, nil).Once()

		_, err := svc.ChangeRole(ctx, target.ID, user.RoleAdmin, requestor, user.RoleAdmin)
		require.NoError(t, err)
	})

	t.Run("admin may not mint super admins", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		requestor := account(t, "admin", user.RoleAdmin)
		target := account(t, "bob", user.RoleUser)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()

		_, err := svc.ChangeRole(ctx, target.ID, user.RoleSuperAdmin, requestor, user.RoleAdmin)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("super admin targets are untouchable", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		requestor := account(t, "root", user.RoleSuperAdmin)
		target := account(t, "root2", user.RoleSuperAdmin)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()

		_, err := svc.ChangeRole(ctx, target.ID, user.RoleUser, requestor, user.RoleSuperAdmin)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("plain user may change nothing", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newService(t, repo, new(MockHasher), new(MockDenylist))

		requestor := account(t, "alice", user.RoleUser)
		target := account(t, "bob", user.RoleUser)
		repo.On("FindByID", ctx, target.ID).Return(target, nil).Once()

		_, err := svc.ChangeRole(ctx, target.ID, user.RoleAdmin, requestor, user.RoleUser)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong current password", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		alice := account(t, "alice", user.RoleUser)
		repo.On("FindByID", ctx, alice.ID).Return(alice, nil).Once()
		hasher.On("Verify", "wrong", "stored-hash").Return(false).Once()

		_, err := svc.ChangePassword(ctx, alice.ID, "wrong", "newpw")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidCredentials))
	})

	t.Run("success swaps the hash", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		svc := newService(t, repo, hasher, new(MockDenylist))

		alice := account(t, "alice", user.RoleUser)
		repo.On("FindByID", ctx, alice.ID).Return(alice, nil).Once()
		hasher.On("Verify", "current", "stored-hash").Return(true).Once()
		hasher.On("Hash", "newpw").Return("new-hash", nil).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(a user.Account) bool {
			return a.PasswordHash == "new-hash"
		})).Return(alice, nil).Once()

		_, err := svc.ChangePassword(ctx, alice.ID, "current", "newpw")
		require.NoError(t, err)
	})
}
