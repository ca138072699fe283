package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/neurixa/neurixa/internal/domain/user"
	handlers "github.com/neurixa/neurixa/internal/interface/http"
	"github.com/neurixa/neurixa/internal/interface/middleware"
)

// AdminModule wires the account administration routes under /api/admin.
// Listing and lookups accept ADMIN and SUPER_ADMIN; deletes additionally
// allow USER so self-deletion flows through the same rules.
type AdminModule struct {
	Handler *handlers.AdminUserHandler
}

func NewAdminModule(h *handlers.AdminUserHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/users")
	admin.Use(middleware.RequireRole(user.RoleAdmin, user.RoleSuperAdmin))
	{
		admin.GET("", m.Handler.List)
		admin.GET("/:id", m.Handler.Get)
		admin.PUT("/:id", m.Handler.Update)
		admin.PUT("/:id/role", m.Handler.ChangeRole)
		admin.POST("/:id/lock", m.Handler.Lock)
		admin.POST("/:id/unlock", m.Handler.Unlock)
		admin.POST("/:id/reset-failed-login", m.Handler.ResetFailedLogin)
	}

	del := rg.Group("/admin/users")
	del.Use(middleware.RequireAuth())
	{
		del.DELETE("/:id", m.Handler.Delete)
	}
}
