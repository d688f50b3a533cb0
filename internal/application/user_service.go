package application

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-user-warehouse/internal/domain/entity"
	repo "go-user-warehouse/internal/domain/repository"
	"go-user-warehouse/pkg/helpers"
	"go-user-warehouse/pkg/importer"
)

// Service exposes record CRUD and the spreadsheet import on top of the
// record store. It holds long-lived clients injected once at startup.
type Service struct {
	Store     repo.RecordStore
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewService(store repo.RecordStore, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *Service {
	return &Service{Store: store, GCS: gcs, GCSBucket: gcsBucket, Logger: logger}
}

// UserInput carries the caller-settable fields of a record. ID and the
// timestamps are always store-assigned.
type UserInput struct {
	Name     string
	DOB      time.Time
	Email    string
	Password string
	Phone    string
	Gender   string
	Address  string
}

func (in UserInput) toUser() *entity.User {
	return &entity.User{
		Name:     in.Name,
		DOB:      in.DOB,
		Email:    in.Email,
		Password: in.Password,
		Phone:    in.Phone,
		Gender:   in.Gender,
		Address:  in.Address,
	}
}

func (s *Service) Create(ctx context.Context, in UserInput) (*entity.User, error) {
	u := in.toUser()
	if _, err := s.Store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user created")
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Store.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.Store.GetByEmail(ctx, email)
}

// List returns a page when limit is positive, otherwise the full set.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if limit > 0 {
		return s.Store.ListPage(ctx, limit, offset)
	}
	return s.Store.ListAll(ctx)
}

func (s *Service) Search(ctx context.Context, term string) ([]*entity.User, error) {
	return s.Store.Search(ctx, term)
}

func (s *Service) Update(ctx context.Context, id string, in UserInput) (*entity.User, error) {
	u := in.toUser()
	if err := s.Store.Update(ctx, id, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", id).Info("user updated")
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Store.Count(ctx)
}

func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.Store.DeleteAll(ctx); err != nil {
		return err
	}
	s.Logger.Warn("all user records deleted")
	return nil
}

// ImportResult reports a spreadsheet import: Parsed rows survived parsing,
// Created rows were actually stored (duplicates are skipped silently).
type ImportResult struct {
	Parsed  int `json:"parsed"`
	Created int `json:"created"`
}

// ImportSpreadsheet parses an xlsx upload into records and bulk-creates them.
// When a bucket is configured the raw upload is archived to GCS first; that
// copy is best effort and never fails the import.
func (s *Service) ImportSpreadsheet(ctx context.Context, r io.Reader, filename string) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.archiveUpload(ctx, data, filename)

	users, err := importer.ReadUsers(bytes.NewReader(data), s.Logger)
	if err != nil {
		return nil, err
	}
	created, err := s.Store.BulkCreate(ctx, users)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"parsed": len(users), "created": created}).Info("spreadsheet import finished")
	return &ImportResult{Parsed: len(users), Created: created}, nil
}

func (s *Service) archiveUpload(ctx context.Context, data []byte, filename string) {
	if s.GCS == nil || s.GCSBucket == "" {
		return
	}
	object := filepath.ToSlash(filepath.Join("imports", uuid.NewString()+filepath.Ext(filename)))
	if _, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, object,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", bytes.NewReader(data)); err != nil {
		s.Logger.WithError(err).WithField("object", object).Warn("import archive upload failed")
	}
}
