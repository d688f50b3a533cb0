package entity

import (
	"time"

	"cloud.google.com/go/civil"
)

// WarehouseRow is the analytical copy of a user record. Rows are append-only:
// re-migrating the same user produces a second row with a later MigratedAt,
// never an upsert. The password is deliberately absent.
type WarehouseRow struct {
	ID      string
	Name    string
	DOB     civil.Date
	Email   string
	Phone   string
	Gender  string
	Address string
	// Epoch seconds. Float keeps sub-second precision through the wire;
	// whole-second truncation would be an observable change.
	CreatedAt  float64
	MigratedAt float64
}

// NewWarehouseRow maps a user record to its warehouse row shape. Pure; the
// caller supplies the migration instant.
func NewWarehouseRow(u *User, migratedAt time.Time) WarehouseRow {
	return WarehouseRow{
		ID:         u.ID,
		Name:       u.Name,
		DOB:        civil.DateOf(u.DOB),
		Email:      u.Email,
		Phone:      u.Phone,
		Gender:     u.Gender,
		Address:    u.Address,
		CreatedAt:  epochSeconds(u.CreatedAt),
		MigratedAt: epochSeconds(migratedAt),
	}
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000.0
}

// RowSummary is the narrow projection returned by warehouse sampling.
type RowSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// MigrationResult aggregates the outcome of a bulk warehouse insert. Errors
// holds one human-readable message per failed record.
type MigrationResult struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// MigrationStatus reports the two store counts side by side. The counts come
// from independent systems with no snapshot isolation, so Pending is a plain
// subtraction and can be negative after repeated migration.
type MigrationStatus struct {
	Total    int64 `json:"totalUsers"`
	Migrated int64 `json:"migratedUsers"`
	Pending  int64 `json:"pendingUsers"`
}
