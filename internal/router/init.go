package router

import (
	"go-user-warehouse/internal/application"
	"go-user-warehouse/internal/container"
	handlers "go-user-warehouse/internal/interface/http"
	"go-user-warehouse/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// adds them to the registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetRecordStore()
	warehouse := container.GetWarehouse()

	userSvc := application.NewService(store, container.GetGCS(), cfg.ImportArchiveBucket, logger)
	migrationSvc := application.NewMigrationService(store, warehouse, logger)
	authSvc := application.NewAuthService(store, container.GetJWT(), container.GetRedis(), logger)

	userHandler := handlers.NewUserHandler(userSvc, logger)
	migrationHandler := handlers.NewMigrationHandler(migrationSvc, logger)
	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewMigrationModule(migrationHandler, container.GetJWT()))
}
