package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount(t *testing.T) Account {
	t.Helper()
	a, err := New("alice", "alice@example.com", "hash", RoleUser)
	require.NoError(t, err)
	return a
}

func TestNewAccount(t *testing.T) {
	t.Run("valid account", func(t *testing.T) {
		a := validAccount(t)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, RoleUser, a.Role)
		assert.False(t, a.Locked)
		assert.False(t, a.EmailVerified)
		assert.Zero(t, a.FailedLoginAttempts)
	})

	t.Run("username length boundaries", func(t *testing.T) {
		_, err := New("ab", "a@b.com", "hash", RoleUser)
		assert.Error(t, err)

		_, err = New("abc", "a@b.com", "hash", RoleUser)
		assert.NoError(t, err)

		_, err = New(strings.Repeat("x", 50), "a@b.com", "hash", RoleUser)
		assert.NoError(t, err)

		_, err = New(strings.Repeat("x", 51), "a@b.com", "hash", RoleUser)
		assert.Error(t, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := New("alice", "not-an-email", "hash", RoleUser)
		assert.Error(t, err)

		_, err = New("alice", "", "hash", RoleUser)
		assert.Error(t, err)
	})

	t.Run("blank password hash", func(t *testing.T) {
		_, err := New("alice", "alice@example.com", "", RoleUser)
		assert.Error(t, err)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := New("alice", "alice@example.com", "hash", Role("OWNER"))
		assert.Error(t, err)
	})
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"USER", "ADMIN", "SUPER_ADMIN"} {
		r, err := ParseRole(s)
		assert.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}
	_, err := ParseRole("user")
	assert.Error(t, err)
}

func TestChangeEmail(t *testing.T) {
	a := validAccount(t).VerifyEmail()
	require.True(t, a.EmailVerified)

	changed, err := a.ChangeEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", changed.Email)
	assert.False(t, changed.EmailVerified, "changing the address must reset verification")

	_, err = a.ChangeEmail("bogus")
	assert.Error(t, err)
}

func TestPromote(t *testing.T) {
	t.Run("user to admin", func(t *testing.T) {
		a := validAccount(t)
		promoted, err := a.Promote(RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, promoted.Role)
	})

	t.Run("super admin is terminal", func(t *testing.T) {
		a, err := New("root", "root@example.com", "hash", RoleSuperAdmin)
		require.NoError(t, err)
		_, err = a.Promote(RoleAdmin)
		assert.Error(t, err)
		_, err = a.Promote(RoleSuperAdmin)
		assert.Error(t, err, "even a no-op change is rejected for SUPER_ADMIN")
	})

	t.Run("locked account cannot change role", func(t *testing.T) {
		a := validAccount(t).Lock()
		_, err := a.Promote(RoleAdmin)
		assert.Error(t, err)
	})
}

func TestFailedLoginLockout(t *testing.T) {
	a := validAccount(t)
	for i := 0; i < MaxFailedAttempts-1; i++ {
		a = a.RecordFailedLogin()
		assert.False(t, a.Locked, "attempt %d must not lock", i+1)
	}
	a = a.RecordFailedLogin()
	assert.True(t, a.Locked, "attempt %d locks the account", MaxFailedAttempts)
	assert.Equal(t, MaxFailedAttempts, a.FailedLoginAttempts)
}

func TestUnlockResetsCounter(t *testing.T) {
	a := validAccount(t)
	for i := 0; i < MaxFailedAttempts; i++ {
		a = a.RecordFailedLogin()
	}
	require.True(t, a.Locked)

	unlocked := a.Unlock()
	assert.False(t, unlocked.Locked)
	assert.Zero(t, unlocked.FailedLoginAttempts)
}

func TestResetFailedLoginKeepsLockState(t *testing.T) {
	a := validAccount(t)
	a = a.RecordFailedLogin().Lock()
	reset := a.ResetFailedLogin()
	assert.Zero(t, reset.FailedLoginAttempts)
	assert.True(t, reset.Locked, "reset does not unlock")
}

func TestTransitionsDoNotMutateOriginal(t *testing.T) {
	a := validAccount(t)
	_ = a.Lock()
	_ = a.RecordFailedLogin()
	_, _ = a.ChangeEmail("other@example.com")

	assert.False(t, a.Locked)
	assert.Zero(t, a.FailedLoginAttempts)
	assert.Equal(t, "alice@example.com", a.Email)
}
