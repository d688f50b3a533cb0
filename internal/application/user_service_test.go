package application

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"go-user-warehouse/internal/domain/repository"
	"go-user-warehouse/internal/infrastructure/memory"
)

func newUserService() *Service {
	return NewService(memory.NewUserRepository(), nil, "", testLogger())
}

func sampleInput(email string) UserInput {
	return UserInput{
		Name:     "Alice Smith",
		DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:    email,
		Password: "pw",
		Phone:    "1234567890",
		Gender:   "Female",
		Address:  "1 Main St",
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	u, err := svc.Create(ctx, sampleInput("alice@x.com"))
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
}

func TestServiceCreateConflict(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleInput("alice@x.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, sampleInput("alice@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestServiceListPagedVersusAll(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := svc.Create(ctx, sampleInput(email))
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestServiceImportSpreadsheet(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	// one of the three rows collides with an existing record
	_, err := svc.Create(ctx, sampleInput("taken@x.com"))
	require.NoError(t, err)

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	rows := [][]any{
		{"Name", "DOB", "Email", "Password", "Phone", "Gender", "Address"},
		{"A", "01/01/1990", "a@x.com", "pw", "1", "", ""},
		{"Taken", "01/01/1990", "taken@x.com", "pw", "2", "", ""},
		{"B", "01/01/1990", "b@x.com", "pw", "3", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	result, err := svc.ImportSpreadsheet(ctx, bytes.NewReader(buf.Bytes()), "users.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Parsed)
	assert.Equal(t, 2, result.Created)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestServiceDeleteAll(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleInput("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAll(ctx))
	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
