package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/internal/domain/user"
	handlers "github.com/neurixa/neurixa/internal/interface/http"
	"github.com/neurixa/neurixa/internal/interface/middleware"
	"github.com/neurixa/neurixa/internal/router/modules"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/helpers"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// memoryUserRepo is an in-memory user.Repository for wire-level tests.
type memoryUserRepo struct {
	accounts map[string]user.Account
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{accounts: map[string]user.Account{}}
}

func (r *memoryUserRepo) Save(ctx context.Context, a user.Account) (user.Account, error) {
	r.accounts[a.ID] = a
	return a, nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id string) (user.Account, error) {
	if a, ok := r.accounts[id]; ok {
		return a, nil
	}
	return user.Account{}, apperr.NotFound("User not found")
}

func (r *memoryUserRepo) FindByUsername(ctx context.Context, username string) (user.Account, error) {
	for _, a := range r.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return user.Account{}, apperr.NotFound("User not found")
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (user.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return user.Account{}, apperr.NotFound("User not found")
}

func (r *memoryUserRepo) FindPage(ctx context.Context, filter user.ListFilter) (user.Page, error) {
	return user.Page{}, nil
}

func (r *memoryUserRepo) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *memoryUserRepo) DeleteByID(ctx context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return apperr.NotFound("User not found")
	}
	delete(r.accounts, id)
	return nil
}

// memoryDenylist is an in-memory helpers.TokenDenylist.
type memoryDenylist struct {
	revoked map[string]bool
}

func (d *memoryDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if d.revoked == nil {
		d.revoked = map[string]bool{}
	}
	d.revoked[token] = true
	return nil
}

func (d *memoryDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	return d.revoked[token], nil
}

type apiRig struct {
	engine   *gin.Engine
	repo     *memoryUserRepo
	denylist *memoryDenylist
	codec    *helpers.TokenCodec
}

func newAPIRig(t *testing.T) *apiRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := helpers.NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	repo := newMemoryUserRepo()
	denylist := &memoryDenylist{}
	auth := application.NewAuthService(repo, helpers.Bcrypt{}, codec, denylist, logger)

	engine := gin.New()
	engine.Use(middleware.Authenticate(codec, denylist))
	api := engine.Group("/api")
	modules.NewAuthModule(handlers.NewAuthHandler(auth, logger), handlers.NewUserHandler(auth, logger)).Register(api)
	modules.NewAdminModule(handlers.NewAdminUserHandler(auth, logger)).Register(api)

	return &apiRig{engine: engine, repo: repo, denylist: denylist, codec: codec}
}

// seed stores an account directly and returns it with a signed token.
func (rig *apiRig) seed(t *testing.T, username string, role user.Role) (user.Account, string) {
	t.Helper()
	a, err := user.New(username, username+"@example.com", "stored-hash", role)
	require.NoError(t, err)
	rig.repo.accounts[a.ID] = a
	token, err := rig.codec.Sign(a.Username, string(a.Role))
	require.NoError(t, err)
	return a, token
}

func (rig *apiRig) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	rig.engine.ServeHTTP(w, req)
	return w
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("missing header is a bad request", func(t *testing.T) {
		rig := newAPIRig(t)
		w := rig.do(http.MethodPost, "/api/auth/logout", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed header is a bad request", func(t *testing.T) {
		rig := newAPIRig(t)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()
		rig.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid token is a bad request", func(t *testing.T) {
		rig := newAPIRig(t)
		w := rig.do(http.MethodPost, "/api/auth/logout", "not.a.token")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid token is revoked and stops working", func(t *testing.T) {
		rig := newAPIRig(t)
		_, token := rig.seed(t, "alice", user.RoleUser)

		me := rig.do(http.MethodGet, "/api/users/me", token)
		assert.Equal(t, http.StatusOK, me.Code)

		w := rig.do(http.MethodPost, "/api/auth/logout", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, rig.denylist.revoked[token])

		meAfter := rig.do(http.MethodGet, "/api/users/me", token)
		assert.Equal(t, http.StatusUnauthorized, meAfter.Code)
	})
}

func TestAdminDeleteEndpoint(t *testing.T) {
	t.Run("successful delete responds 204 with no body", func(t *testing.T) {
		rig := newAPIRig(t)
		_, rootToken := rig.seed(t, "root", user.RoleSuperAdmin)
		target, _ := rig.seed(t, "bob", user.RoleUser)

		w := rig.do(http.MethodDelete, "/api/admin/users/"+target.ID, rootToken)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		_, ok := rig.repo.accounts[target.ID]
		assert.False(t, ok)
	})

	t.Run("super admin target stays 403", func(t *testing.T) {
		rig := newAPIRig(t)
		_, adminToken := rig.seed(t, "admin", user.RoleAdmin)
		target, _ := rig.seed(t, "root", user.RoleSuperAdmin)

		w := rig.do(http.MethodDelete, "/api/admin/users/"+target.ID, adminToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "SUPER_ADMIN accounts cannot be deleted")
	})
}

func TestResetFailedLoginEndpoint(t *testing.T) {
	rig := newAPIRig(t)
	_, adminToken := rig.seed(t, "admin", user.RoleAdmin)

	target, _ := rig.seed(t, "bob", user.RoleUser)
	target.FailedLoginAttempts = 3
	rig.repo.accounts[target.ID] = target

	w := rig.do(http.MethodPost, "/api/admin/users/"+target.ID+"/reset-failed-login", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, rig.repo.accounts[target.ID].FailedLoginAttempts)
}
