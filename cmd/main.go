package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"go-user-warehouse/config"
	"go-user-warehouse/internal/container"
	bqinfra "go-user-warehouse/internal/infrastructure/bigquery"
	dsinfra "go-user-warehouse/internal/infrastructure/datastore"
	"go-user-warehouse/internal/infrastructure/memory"
	"go-user-warehouse/internal/interface/middleware"
	"go-user-warehouse/internal/router"
	"go-user-warehouse/pkg/helpers"
	"go-user-warehouse/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Record store
	switch cfg.Store {
	case "memory":
		container.SetRecordStore(memory.NewUserRepository())
		logger.Warn("using in-memory record store; data does not survive restarts")
	default:
		dsClient, err := dsinfra.NewClient(ctx, cfg.GCPProject, cfg.GCPCredentialsPath)
		if err != nil {
			log.Fatalf("failed to init datastore client: %v", err)
		}
		defer func() { _ = dsClient.Close() }()
		container.SetRecordStore(dsinfra.NewUserRepository(dsClient, logger))
	}

	// Warehouse
	bqClient, err := bqinfra.NewClient(ctx, cfg.GCPProject, cfg.GCPCredentialsPath)
	if err != nil {
		log.Fatalf("failed to init bigquery client: %v", err)
	}
	defer func() { _ = bqClient.Close() }()
	sink := bqinfra.NewWarehouseSink(bqClient, cfg.WarehouseDataset, cfg.WarehouseTable, logger)
	if err := sink.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to bootstrap warehouse schema: %v", err)
	}
	container.SetWarehouse(sink)

	// Redis (sessions)
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// GCS for archiving import uploads; only needed when a bucket is set
	if cfg.ImportArchiveBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCPCredentialsPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
