package modules

import (
	"github.com/gin-gonic/gin"

	"go-user-warehouse/internal/container"
	handlers "go-user-warehouse/internal/interface/http"
	"go-user-warehouse/internal/interface/middleware"
	"go-user-warehouse/pkg/helpers"
)

// MigrationModule wires the warehouse migration endpoints.
// GET  /api/migration/status
// GET  /api/migration/records?limit=N
// POST /api/migration/bulk
// POST /api/migration/user/:id
type MigrationModule struct {
	Handler *handlers.MigrationHandler
	JWT     *helpers.JWTManager
}

func NewMigrationModule(h *handlers.MigrationHandler, jwt *helpers.JWTManager) *MigrationModule {
	return &MigrationModule{Handler: h, JWT: jwt}
}

func (m *MigrationModule) Register(rg *gin.RouterGroup) {
	migration := rg.Group("/migration")
	migration.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		migration.GET("/status", m.Handler.Status)
		migration.GET("/records", m.Handler.Records)
		migration.POST("/bulk", m.Handler.Bulk)
		migration.POST("/user/:id", m.Handler.MigrateUser)
	}
}
