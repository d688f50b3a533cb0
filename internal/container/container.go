package container

import (
	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"go-user-warehouse/config"
	"go-user-warehouse/internal/domain/repository"
	"go-user-warehouse/pkg/helpers"
)

// Process-wide singletons shared across packages. Every client is constructed
// once in main and injected by reference; nothing here initializes lazily.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	recordStore repository.RecordStore
	warehouse   repository.WarehouseSink
	redisClient *redis.Client
	gcsClient   *storage.Client
	jwtManager  *helpers.JWTManager
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }

func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }

func SetRecordStore(s repository.RecordStore) { recordStore = s }
func GetRecordStore() repository.RecordStore  { return recordStore }

func SetWarehouse(w repository.WarehouseSink) { warehouse = w }
func GetWarehouse() repository.WarehouseSink  { return warehouse }

func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client  { return redisClient }

func SetGCS(s *storage.Client) { gcsClient = s }
func GetGCS() *storage.Client  { return gcsClient }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }
