package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"go-user-warehouse/internal/domain/entity"
	repo "go-user-warehouse/internal/domain/repository"
)

var (
	// ErrNoUsers is returned by MigrateAll when the record store is empty.
	ErrNoUsers = errors.New("no users found in record store")
	// ErrMigrationFailed is the generic outcome for a single-record insert
	// the warehouse rejected; the details have already been logged.
	ErrMigrationFailed = errors.New("failed to migrate user")
)

// MigrationService orchestrates copying records into the warehouse. It is
// stateless: no cursor, no retries, every call re-reads the stores.
type MigrationService struct {
	Records   repo.RecordStore
	Warehouse repo.WarehouseSink
	Logger    *logrus.Logger
}

func NewMigrationService(records repo.RecordStore, warehouse repo.WarehouseSink, logger *logrus.Logger) *MigrationService {
	return &MigrationService{Records: records, Warehouse: warehouse, Logger: logger}
}

// Status queries both stores independently. There is no snapshot isolation
// between them, so Pending can be negative after repeated migration; it is
// reported as computed, never clamped.
func (s *MigrationService) Status(ctx context.Context) (*entity.MigrationStatus, error) {
	total, err := s.Records.Count(ctx)
	if err != nil {
		return nil, err
	}
	migrated, err := s.Warehouse.CountRows(ctx)
	if err != nil {
		return nil, err
	}
	return &entity.MigrationStatus{
		Total:    int64(total),
		Migrated: migrated,
		Pending:  int64(total) - migrated,
	}, nil
}

// MigrateAll copies the full record set in one synchronous pass and returns
// the per-record aggregate. An empty store short-circuits with ErrNoUsers.
func (s *MigrationService) MigrateAll(ctx context.Context) (*entity.MigrationResult, error) {
	users, err := s.Records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	result := s.Warehouse.BulkInsert(ctx, users)
	s.Logger.WithFields(logrus.Fields{
		"total":   result.Total,
		"success": result.Success,
		"failed":  result.Failed,
	}).Info("bulk migration completed")
	return result, nil
}

// MigrateOne copies a single record. repository.ErrNotFound when the id does
// not resolve, ErrMigrationFailed when the warehouse rejected the row.
func (s *MigrationService) MigrateOne(ctx context.Context, id string) error {
	u, err := s.Records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.Warehouse.InsertRow(ctx, u) {
		return ErrMigrationFailed
	}
	return nil
}

func (s *MigrationService) Sample(ctx context.Context, limit int) ([]entity.RowSummary, error) {
	return s.Warehouse.SampleRows(ctx, limit)
}
