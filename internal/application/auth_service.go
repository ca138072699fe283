package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/domain/user"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/helpers"
	"github.com/neurixa/neurixa/pkg/metrics"
)

// PasswordHasher is the credential hashing port.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, hash string) bool
}

// TokenDenylist records revoked bearer tokens until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Stable error messages. Login failures for a missing user and a wrong
// password share one literal so responses cannot enumerate usernames.
var (
	errInvalidCredentials = apperr.InvalidCredentials("Invalid username or password")
	errAccountLocked      = apperr.Locked("Account is locked due to too many failed login attempts")
	errStaleSession       = apperr.Conflict("Your session is outdated. Please login again to refresh your permissions.")
)

// AuthService orchestrates account lifecycle: registration, login, logout,
// administration, and the role/deletion safety rules.
type AuthService struct {
	Users    user.Repository
	Hasher   PasswordHasher
	Codec    *helpers.TokenCodec
	Denylist TokenDenylist
	Logger   *logrus.Logger
}

func NewAuthService(users user.Repository, hasher PasswordHasher, codec *helpers.TokenCodec, denylist TokenDenylist, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Hasher:   hasher,
		Codec:    codec,
		Denylist: denylist,
		Logger:   logger,
	}
}

// Register creates a USER account and issues its first token.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (user.Account, string, error) {
	if _, err := s.Users.FindByUsername(ctx, username); err == nil {
		return user.Account{}, "", apperr.Conflict("Username already exists: " + username)
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return user.Account{}, "", err
	}
	if _, err := s.Users.FindByEmail(ctx, email); err == nil {
		return user.Account{}, "", apperr.Conflict("Email already exists: " + email)
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return user.Account{}, "", err
	}

	hash, err := s.Hasher.Hash(rawPassword)
	if err != nil {
		return user.Account{}, "", err
	}
	account, err := user.New(username, email, hash, user.RoleUser)
	if err != nil {
		return user.Account{}, "", err
	}
	saved, err := s.Users.Save(ctx, account)
	if err != nil {
		return user.Account{}, "", err
	}
	token, err := s.Codec.Sign(saved.Username, string(saved.Role))
	if err != nil {
		return user.Account{}, "", err
	}
	s.Logger.WithField("username", saved.Username).Info("account registered")
	return saved, token, nil
}

// Login verifies credentials and issues a token. Failed attempts are counted
// and lock the account at the threshold; a successful login resets the count.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (user.Account, string, error) {
	account, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// Burn a hash comparison anyway so response timing does not
			// reveal whether the username exists.
			s.Hasher.Verify(rawPassword, helpers.DummyHash)
			metrics.LoginFailures.Inc()
			return user.Account{}, "", errInvalidCredentials
		}
		return user.Account{}, "", err
	}

	if account.Locked {
		metrics.LoginFailures.Inc()
		return user.Account{}, "", errAccountLocked
	}

	if !s.Hasher.Verify(rawPassword, account.PasswordHash) {
		failed := account.RecordFailedLogin()
		if _, saveErr := s.Users.Save(ctx, failed); saveErr != nil {
			s.Logger.WithError(saveErr).Warn("failed to persist failed-login count")
		}
		if failed.Locked && !account.Locked {
			metrics.AccountLockouts.Inc()
		}
		metrics.LoginFailures.Inc()
		return user.Account{}, "", errInvalidCredentials
	}

	if account.FailedLoginAttempts > 0 {
		reset := account.ResetFailedLogin()
		saved, saveErr := s.Users.Save(ctx, reset)
		if saveErr != nil {
			return user.Account{}, "", saveErr
		}
		account = saved
	}

	token, err := s.Codec.Sign(account.Username, string(account.Role))
	if err != nil {
		return user.Account{}, "", err
	}
	return account, token, nil
}

// Logout revokes the presented token for the remainder of its validity.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.Codec.Verify(token); err != nil {
		return apperr.InvalidInput("Invalid or expired token")
	}
	expiresAt, err := s.Codec.ExpiryOf(token)
	if err != nil {
		return apperr.InvalidInput("Invalid or expired token")
	}
	return s.Denylist.Revoke(ctx, token, expiresAt)
}

// ChangePassword verifies the current password before applying the new one.
func (s *AuthService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) (user.Account, error) {
	account, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return user.Account{}, err
	}
	if !s.Hasher.Verify(currentPassword, account.PasswordHash) {
		return user.Account{}, errInvalidCredentials
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return user.Account{}, err
	}
	changed, err := account.ChangePassword(hash)
	if err != nil {
		return user.Account{}, err
	}
	return s.Users.Save(ctx, changed)
}

func (s *AuthService) GetByUsername(ctx context.Context, username string) (user.Account, error) {
	return s.Users.FindByUsername(ctx, username)
}

func (s *AuthService) GetByID(ctx context.Context, id string) (user.Account, error) {
	return s.Users.FindByID(ctx, id)
}

// ListUsers returns a filtered page, normalizing out-of-range paging inputs.
func (s *AuthService) ListUsers(ctx context.Context, filter user.ListFilter) (user.Page, error) {
	if filter.Page < 0 {
		filter.Page = 0
	}
	if filter.Size <= 0 || filter.Size > 100 {
		filter.Size = 20
	}
	if filter.SortBy == "" {
		filter.SortBy = "createdAt"
	}
	if filter.SortDirection == "" {
		filter.SortDirection = "desc"
	}
	return s.Users.FindPage(ctx, filter)
}

// UpdateUser applies an email and/or role change to the target account.
func (s *AuthService) UpdateUser(ctx context.Context, id string, email string, role user.Role) (user.Account, error) {
	account, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return user.Account{}, err
	}
	if email != "" && email != account.Email {
		account, err = account.ChangeEmail(email)
		if err != nil {
			return user.Account{}, err
		}
	}
	if role != "" && role != account.Role {
		account, err = account.Promote(role)
		if err != nil {
			return user.Account{}, err
		}
	}
	return s.Users.Save(ctx, account)
}

// DeleteUser enforces the deletion safety rules, strictly in order:
// existence, SUPER_ADMIN immunity, self-delete for plain users, and
// last-ADMIN protection.
func (s *AuthService) DeleteUser(ctx context.Context, targetID string, requestor user.Account) error {
	target, err := s.Users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.Role == user.RoleSuperAdmin {
		return apperr.Forbidden("SUPER_ADMIN accounts cannot be deleted")
	}

	if requestor.Role == user.RoleUser && requestor.ID != targetID {
		return apperr.Forbidden("Users may only delete their own account")
	}

	if target.Role == user.RoleAdmin {
		adminCount, err := s.Users.CountByRole(ctx, user.RoleAdmin)
		if err != nil {
			return err
		}
		superCount, err := s.Users.CountByRole(ctx, user.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if adminCount <= 1 && superCount == 0 {
			return apperr.Forbidden("Cannot delete the last ADMIN")
		}
	}

	if err := s.Users.DeleteByID(ctx, targetID); err != nil {
		return err
	}
	s.Logger.WithField("target_id", targetID).Info("account deleted")
	return nil
}

// ChangeRole applies the role authorization matrix. tokenRole is the role
// claim from the validated bearer token; when it disagrees with the
// requestor's persisted role the session is stale and the request rejected.
func (s *AuthService) ChangeRole(ctx context.Context, targetID string, newRole user.Role, requestor user.Account, tokenRole user.Role) (user.Account, error) {
	if tokenRole != requestor.Role {
		return user.Account{}, errStaleSession
	}

	target, err := s.Users.FindByID(ctx, targetID)
	if err != nil {
		return user.Account{}, err
	}

	if !canChangeRole(requestor.Role, target.Role, newRole) {
		return user.Account{}, apperr.Forbidden("Insufficient permissions to change role")
	}

	promoted, err := target.Promote(newRole)
	if err != nil {
		return user.Account{}, err
	}
	return s.Users.Save(ctx, promoted)
}

// canChangeRole is the role authorization matrix: USER may set nothing, ADMIN
// may set USER or ADMIN, SUPER_ADMIN may set anything. SUPER_ADMIN targets
// are untouchable for everyone.
func canChangeRole(requestorRole, targetRole, newRole user.Role) bool {
	if targetRole == user.RoleSuperAdmin {
		return false
	}
	switch requestorRole {
	case user.RoleSuperAdmin:
		return true
	case user.RoleAdmin:
		return newRole == user.RoleUser || newRole == user.RoleAdmin
	default:
		return false
	}
}

// LockUser locks the target account.
func (s *AuthService) LockUser(ctx context.Context, id string) (user.Account, error) {
	account, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return user.Account{}, err
	}
	return s.Users.Save(ctx, account.Lock())
}

// UnlockUser unlocks the target and clears its failed-login count.
func (s *AuthService) UnlockUser(ctx context.Context, id string) (user.Account, error) {
	account, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return user.Account{}, err
	}
	return s.Users.Save(ctx, account.Unlock())
}

// ResetFailedLogin clears the failed-login count without unlocking.
func (s *AuthService) ResetFailedLogin(ctx context.Context, id string) (user.Account, error) {
	account, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return user.Account{}, err
	}
	return s.Users.Save(ctx, account.ResetFailedLogin())
}
