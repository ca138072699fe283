package router

import "github.com/gin-gonic/gin"

// Module is one self-contained feature surface (auth, admin, files, blog).
// Register receives the /api group and attaches the module's routes together
// with any route-level guards.
type Module interface {
	Register(rg *gin.RouterGroup)
}
