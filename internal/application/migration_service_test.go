package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-user-warehouse/internal/domain/entity"
	"go-user-warehouse/internal/domain/repository"
	"go-user-warehouse/internal/infrastructure/memory"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeSink records inserts and rejects emails listed in reject.
type fakeSink struct {
	rows     []*entity.User
	reject   map[string]bool
	rowCount int64
	countErr error
	samples  []entity.RowSummary
}

func (f *fakeSink) EnsureSchema(context.Context) error { return nil }

func (f *fakeSink) InsertRow(_ context.Context, u *entity.User) bool {
	if f.reject[u.Email] {
		return false
	}
	f.rows = append(f.rows, u)
	return true
}

func (f *fakeSink) BulkInsert(ctx context.Context, users []*entity.User) *entity.MigrationResult {
	result := &entity.MigrationResult{Total: len(users), Errors: []string{}}
	for _, u := range users {
		if f.InsertRow(ctx, u) {
			result.Success++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, "Failed to migrate user: "+u.Email)
		}
	}
	return result
}

func (f *fakeSink) CountRows(context.Context) (int64, error) { return f.rowCount, f.countErr }

func (f *fakeSink) SampleRows(_ context.Context, limit int) ([]entity.RowSummary, error) {
	if limit < len(f.samples) {
		return f.samples[:limit], nil
	}
	return f.samples, nil
}

func seedUsers(t *testing.T, store repository.RecordStore, emails ...string) {
	t.Helper()
	for _, email := range emails {
		_, err := store.Create(context.Background(), &entity.User{
			Name:  "User " + email,
			DOB:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			Email: email,
			Phone: "555",
		})
		require.NoError(t, err)
	}
}

func TestStatus(t *testing.T) {
	store := memory.NewUserRepository()
	seedUsers(t, store, "a@x.com", "b@x.com", "c@x.com")
	sink := &fakeSink{rowCount: 1}
	svc := NewMigrationService(store, sink, testLogger())

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.Total)
	assert.Equal(t, int64(1), status.Migrated)
	assert.Equal(t, int64(2), status.Pending)
}

func TestStatusPendingCanGoNegative(t *testing.T) {
	store := memory.NewUserRepository()
	seedUsers(t, store, "a@x.com")
	// the same record migrated repeatedly: more rows than records
	sink := &fakeSink{rowCount: 3}
	svc := NewMigrationService(store, sink, testLogger())

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(-2), status.Pending)
}

func TestStatusCountError(t *testing.T) {
	store := memory.NewUserRepository()
	sink := &fakeSink{countErr: errors.New("warehouse down")}
	svc := NewMigrationService(store, sink, testLogger())

	_, err := svc.Status(context.Background())
	assert.Error(t, err)
}

func TestMigrateAllEmptyStore(t *testing.T) {
	svc := NewMigrationService(memory.NewUserRepository(), &fakeSink{}, testLogger())

	_, err := svc.MigrateAll(context.Background())
	assert.ErrorIs(t, err, ErrNoUsers)
}

func TestMigrateAllAggregates(t *testing.T) {
	store := memory.NewUserRepository()
	seedUsers(t, store, "a@x.com", "b@x.com", "c@x.com")
	sink := &fakeSink{reject: map[string]bool{"b@x.com": true}}
	svc := NewMigrationService(store, sink, testLogger())

	result, err := svc.MigrateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"Failed to migrate user: b@x.com"}, result.Errors)
	assert.Len(t, sink.rows, 2)
}

func TestMigrateAllCleanRun(t *testing.T) {
	store := memory.NewUserRepository()
	seedUsers(t, store, "a@x.com", "b@x.com", "c@x.com")
	sink := &fakeSink{}
	svc := NewMigrationService(store, sink, testLogger())

	result, err := svc.MigrateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &entity.MigrationResult{Total: 3, Success: 3, Failed: 0, Errors: []string{}}, result)
}

func TestMigrateOne(t *testing.T) {
	store := memory.NewUserRepository()
	sink := &fakeSink{reject: map[string]bool{"bad@x.com": true}}
	svc := NewMigrationService(store, sink, testLogger())
	ctx := context.Background()

	goodID, err := store.Create(ctx, &entity.User{Name: "Good", Email: "good@x.com", DOB: time.Now()})
	require.NoError(t, err)
	badID, err := store.Create(ctx, &entity.User{Name: "Bad", Email: "bad@x.com", DOB: time.Now()})
	require.NoError(t, err)

	assert.NoError(t, svc.MigrateOne(ctx, goodID))
	assert.ErrorIs(t, svc.MigrateOne(ctx, badID), ErrMigrationFailed)
	assert.ErrorIs(t, svc.MigrateOne(ctx, "99999"), repository.ErrNotFound)
	assert.ErrorIs(t, svc.MigrateOne(ctx, "not-numeric"), repository.ErrNotFound)
}

func TestMigrateOneIsNotIdempotent(t *testing.T) {
	store := memory.NewUserRepository()
	sink := &fakeSink{}
	svc := NewMigrationService(store, sink, testLogger())
	ctx := context.Background()

	id, err := store.Create(ctx, &entity.User{Name: "A", Email: "a@x.com", DOB: time.Now()})
	require.NoError(t, err)

	require.NoError(t, svc.MigrateOne(ctx, id))
	require.NoError(t, svc.MigrateOne(ctx, id))
	// append-only sink: two migrations, two rows
	assert.Len(t, sink.rows, 2)
}

func TestSampleDelegates(t *testing.T) {
	sink := &fakeSink{samples: []entity.RowSummary{
		{ID: "1", Name: "Alice Smith", Email: "alice@x.com", Phone: "1234567890"},
		{ID: "2", Name: "Bob", Email: "bob@x.com", Phone: "555"},
	}}
	svc := NewMigrationService(memory.NewUserRepository(), sink, testLogger())

	rows, err := svc.Sample(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice Smith", rows[0].Name)
}
