package modules

import (
	"github.com/gin-gonic/gin"

	"go-user-warehouse/internal/container"
	handlers "go-user-warehouse/internal/interface/http"
	"go-user-warehouse/internal/interface/middleware"
	"go-user-warehouse/pkg/helpers"
)

// AuthModule wires login, refresh and logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", m.Handler.Login)
	auth.POST("/refresh", m.Handler.Refresh)

	protected := auth.Group("/")
	protected.Use(middleware.Auth(container.GetRedis(), m.JWT))
	protected.POST("/logout", m.Handler.Logout)
}
