package bigquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	bq "cloud.google.com/go/bigquery"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"go-user-warehouse/internal/domain/entity"
	"go-user-warehouse/internal/domain/repository"
)

var rowSchema = bq.Schema{
	{Name: "id", Type: bq.StringFieldType},
	{Name: "name", Type: bq.StringFieldType},
	{Name: "dob", Type: bq.DateFieldType},
	{Name: "email", Type: bq.StringFieldType},
	{Name: "phone", Type: bq.StringFieldType},
	{Name: "gender", Type: bq.StringFieldType},
	{Name: "address", Type: bq.StringFieldType},
	{Name: "created_at", Type: bq.TimestampFieldType},
	{Name: "migrated_at", Type: bq.TimestampFieldType},
}

type WarehouseSink struct {
	client  *bq.Client
	dataset string
	table   string
	logger  *logrus.Logger
}

func NewWarehouseSink(client *bq.Client, dataset, table string, logger *logrus.Logger) *WarehouseSink {
	return &WarehouseSink{client: client, dataset: dataset, table: table, logger: logger}
}

// EnsureSchema creates the dataset and table when absent. Each existence
// check is a separate round trip, so two processes bootstrapping at once can
// both attempt the create; run this once at startup.
func (s *WarehouseSink) EnsureSchema(ctx context.Context) error {
	dataset := s.client.Dataset(s.dataset)
	if _, err := dataset.Metadata(ctx); err != nil {
		if !isNotFound(err) {
			return err
		}
		if err := dataset.Create(ctx, &bq.DatasetMetadata{Name: s.dataset}); err != nil {
			return err
		}
		s.logger.WithField("dataset", s.dataset).Info("warehouse dataset created")
	}

	table := dataset.Table(s.table)
	if _, err := table.Metadata(ctx); err != nil {
		if !isNotFound(err) {
			return err
		}
		if err := table.Create(ctx, &bq.TableMetadata{Schema: rowSchema}); err != nil {
			return err
		}
		s.logger.WithField("table", s.table).Info("warehouse table created")
	}
	return nil
}

// InsertRow streams a single row into the warehouse. Every failure path logs
// and returns false; this method never surfaces an error.
func (s *WarehouseSink) InsertRow(ctx context.Context, u *entity.User) bool {
	row := entity.NewWarehouseRow(u, time.Now())
	saver := &bq.ValuesSaver{
		Schema: rowSchema,
		Row: []bq.Value{
			row.ID, row.Name, row.DOB, row.Email, row.Phone,
			row.Gender, row.Address, row.CreatedAt, row.MigratedAt,
		},
	}

	err := s.client.Dataset(s.dataset).Table(s.table).Inserter().Put(ctx, saver)
	if err == nil {
		return true
	}

	var multi bq.PutMultiError
	if errors.As(err, &multi) {
		for _, rowErr := range multi {
			for _, fieldErr := range rowErr.Errors {
				var bqErr *bq.Error
				if errors.As(fieldErr, &bqErr) {
					s.logger.WithFields(logrus.Fields{
						"email":    u.Email,
						"location": bqErr.Location,
					}).Error(bqErr.Message)
				} else {
					s.logger.WithField("email", u.Email).Error(fieldErr.Error())
				}
			}
		}
		return false
	}
	s.logger.WithError(err).WithField("email", u.Email).Error("warehouse insert failed")
	return false
}

// BulkInsert copies records one row at a time and keeps going on failure.
// One remote call per record; fine for the dataset sizes this system targets.
func (s *WarehouseSink) BulkInsert(ctx context.Context, users []*entity.User) *entity.MigrationResult {
	result := &entity.MigrationResult{Total: len(users), Errors: []string{}}
	for _, u := range users {
		if s.InsertRow(ctx, u) {
			result.Success++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, "Failed to migrate user: "+u.Email)
		}
	}
	return result
}

func (s *WarehouseSink) CountRows(ctx context.Context) (int64, error) {
	q := s.client.Query(fmt.Sprintf("SELECT COUNT(*) AS count FROM `%s.%s`", s.dataset, s.table))
	it, err := q.Read(ctx)
	if err != nil {
		return 0, err
	}
	var row struct {
		Count int64 `bigquery:"count"`
	}
	if err := it.Next(&row); err != nil {
		if errors.Is(err, iterator.Done) {
			return 0, nil
		}
		return 0, err
	}
	return row.Count, nil
}

func (s *WarehouseSink) SampleRows(ctx context.Context, limit int) ([]entity.RowSummary, error) {
	q := s.client.Query(fmt.Sprintf(
		"SELECT id, name, email, phone FROM `%s.%s` LIMIT %d", s.dataset, s.table, limit))
	it, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.RowSummary, 0, limit)
	for {
		var row struct {
			ID    string `bigquery:"id"`
			Name  string `bigquery:"name"`
			Email string `bigquery:"email"`
			Phone string `bigquery:"phone"`
		}
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, entity.RowSummary{ID: row.ID, Name: row.Name, Email: row.Email, Phone: row.Phone})
	}
	return rows, nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}

var _ repository.WarehouseSink = (*WarehouseSink)(nil)
