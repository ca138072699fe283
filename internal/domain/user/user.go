package user

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50

	// MaxFailedAttempts is the failed-login count at which an account locks.
	MaxFailedAttempts = 5
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_!#$%&'*+/=?` + "`" + `{|}~^.-]+@[a-zA-Z0-9.-]+$`)

// Role is the authority level of an account. Privilege is totally ordered:
// USER < ADMIN < SUPER_ADMIN.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole validates a role name coming from the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), nil
	}
	return "", apperr.InvalidInput("unknown role: " + s)
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// Account is the user aggregate. It is immutable: every transition returns a
// fresh value and the old one is discarded. All invariants hold after any
// transition that returns without error.
type Account struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	Role                Role
	Locked              bool
	EmailVerified       bool
	FailedLoginAttempts int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// New creates a fresh unlocked, unverified account.
func New(username, email, passwordHash string, role Role) (Account, error) {
	now := time.Now().UTC()
	a := Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.validate(); err != nil {
		return Account{}, err
	}
	return a, nil
}

// From rehydrates an account from persistence without re-validating history.
func From(id, username, email, passwordHash string, role Role, locked, emailVerified bool, failedLoginAttempts int, createdAt, updatedAt time.Time) Account {
	return Account{
		ID:                  id,
		Username:            username,
		Email:               email,
		PasswordHash:        passwordHash,
		Role:                role,
		Locked:              locked,
		EmailVerified:       emailVerified,
		FailedLoginAttempts: failedLoginAttempts,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}
}

func (a Account) validate() error {
	if len(a.Username) < MinUsernameLength || len(a.Username) > MaxUsernameLength {
		return apperr.Newf(apperr.KindInvalidState,
			"Username must be between %d and %d characters.", MinUsernameLength, MaxUsernameLength)
	}
	if !emailPattern.MatchString(a.Email) {
		return apperr.InvalidState("Invalid email format.")
	}
	if a.PasswordHash == "" {
		return apperr.InvalidState("Password hash cannot be blank.")
	}
	if !a.Role.Valid() {
		return apperr.InvalidState("Role is required.")
	}
	if a.FailedLoginAttempts < 0 {
		return apperr.InvalidState("Failed login attempts cannot be negative.")
	}
	return nil
}

func (a Account) touched() Account {
	a.UpdatedAt = time.Now().UTC()
	return a
}

// ChangeEmail swaps the address and resets verification.
func (a Account) ChangeEmail(newEmail string) (Account, error) {
	if !emailPattern.MatchString(newEmail) {
		return Account{}, apperr.InvalidState("Invalid email format.")
	}
	a.Email = newEmail
	a.EmailVerified = false
	return a.touched(), nil
}

func (a Account) ChangePassword(newHash string) (Account, error) {
	if newHash == "" {
		return Account{}, apperr.InvalidState("Password hash cannot be blank.")
	}
	a.PasswordHash = newHash
	return a.touched(), nil
}

// Promote assigns a new role. SUPER_ADMIN is terminal and locked accounts
// cannot change authority.
func (a Account) Promote(newRole Role) (Account, error) {
	if !newRole.Valid() {
		return Account{}, apperr.InvalidState("Role is required.")
	}
	if a.Role == RoleSuperAdmin {
		return Account{}, apperr.InvalidState("SUPER_ADMIN cannot be demoted.")
	}
	if a.Locked {
		return Account{}, apperr.InvalidState("Locked user cannot be promoted.")
	}
	a.Role = newRole
	return a.touched(), nil
}

func (a Account) Lock() Account {
	a.Locked = true
	return a.touched()
}

// Unlock also resets the failed-attempt counter.
func (a Account) Unlock() Account {
	a.Locked = false
	a.FailedLoginAttempts = 0
	return a.touched()
}

func (a Account) VerifyEmail() Account {
	a.EmailVerified = true
	return a.touched()
}

// RecordFailedLogin increments the counter and locks the account once it
// reaches MaxFailedAttempts.
func (a Account) RecordFailedLogin() Account {
	a.FailedLoginAttempts++
	if a.FailedLoginAttempts >= MaxFailedAttempts {
		a.Locked = true
	}
	return a.touched()
}

func (a Account) ResetFailedLogin() Account {
	a.FailedLoginAttempts = 0
	return a.touched()
}
