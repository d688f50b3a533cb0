package entity

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWarehouseRowMapsFields(t *testing.T) {
	created := time.Date(2023, 4, 5, 12, 30, 45, 500_000_000, time.UTC)
	migrated := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{
		ID:        "42",
		Name:      "Alice Smith",
		DOB:       time.Date(1990, 1, 1, 15, 0, 0, 0, time.UTC),
		Email:     "alice@x.com",
		Password:  "supersecret",
		Phone:     "1234567890",
		Gender:    "Female",
		Address:   "1 Main St",
		CreatedAt: created,
	}

	row := NewWarehouseRow(u, migrated)

	assert.Equal(t, "42", row.ID)
	assert.Equal(t, "Alice Smith", row.Name)
	assert.Equal(t, "alice@x.com", row.Email)
	assert.Equal(t, "1234567890", row.Phone)
	assert.Equal(t, "Female", row.Gender)
	assert.Equal(t, "1 Main St", row.Address)
	// date-only, the time component is discarded
	assert.Equal(t, civil.Date{Year: 1990, Month: time.January, Day: 1}, row.DOB)
	// epoch seconds keep the sub-second part
	assert.InDelta(t, 1680697845.5, row.CreatedAt, 1e-9)
	assert.Equal(t, float64(migrated.Unix()), row.MigratedAt)
}

func TestWarehouseRowNeverCarriesPassword(t *testing.T) {
	u := &User{ID: "1", Name: "A", Email: "a@x.com", Password: "hunter2", CreatedAt: time.Now()}
	row := NewWarehouseRow(u, time.Now())

	b, err := json.Marshal(row)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(b), "hunter2"))
}
