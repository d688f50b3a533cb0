package repository

import (
	"context"

	"go-user-warehouse/internal/domain/entity"
)

// WarehouseSink is the append-only analytical store. Inserting the same user
// twice produces two rows; nothing here updates or deletes.
type WarehouseSink interface {
	// EnsureSchema creates the dataset and table when absent. Existence is
	// checked in separate calls, so concurrent bootstrap can race; call it
	// once at process startup.
	EnsureSchema(ctx context.Context) error
	// InsertRow copies one record into the warehouse. Failures are logged
	// and reported as false, never as an error.
	InsertRow(ctx context.Context, u *entity.User) bool
	// BulkInsert inserts one row per record sequentially and aggregates the
	// outcome; a failed record never aborts the rest.
	BulkInsert(ctx context.Context, users []*entity.User) *entity.MigrationResult
	CountRows(ctx context.Context) (int64, error)
	// SampleRows returns up to limit rows with only id, name, email and
	// phone populated.
	SampleRows(ctx context.Context, limit int) ([]entity.RowSummary, error)
}
