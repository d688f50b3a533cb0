package modules

import (
	"github.com/gin-gonic/gin"

	"go-user-warehouse/internal/container"
	handlers "go-user-warehouse/internal/interface/http"
	"go-user-warehouse/internal/interface/middleware"
	"go-user-warehouse/pkg/helpers"
)

// UserModule wires record CRUD, search and the spreadsheet import.
// All routes require an authenticated session.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		users.POST("", m.Handler.Create)
		users.GET("", m.Handler.List)
		users.GET("/count", m.Handler.Count)
		users.POST("/import", m.Handler.Import)
		users.GET("/:id", m.Handler.Get)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
		users.DELETE("", m.Handler.DeleteAll)
	}
}
