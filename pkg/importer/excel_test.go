package importer

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestReadUsers(t *testing.T) {
	r := buildSheet(t, [][]any{
		{"Name", "DOB", "Email", "Password", "Phone", "Gender", "Address"},
		{"Alice Smith", "01/01/1990", "alice@x.com", "pw1", "1234567890", "Female", "1 Main St"},
		{"Bob Brown", "15/06/1985", "bob@x.com", "pw2", "555-0123", "Male", "2 Side St"},
	})

	users, err := ReadUsers(r, discardLogger())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "Alice Smith", users[0].Name)
	assert.Equal(t, "alice@x.com", users[0].Email)
	assert.Equal(t, "pw1", users[0].Password)
	assert.Equal(t, "1234567890", users[0].Phone)
	assert.Equal(t, "Female", users[0].Gender)
	assert.Equal(t, "1 Main St", users[0].Address)
	assert.Equal(t, 1990, users[0].DOB.Year())

	assert.Equal(t, "Bob Brown", users[1].Name)
	assert.Equal(t, 15, users[1].DOB.Day())
	assert.Equal(t, 6, int(users[1].DOB.Month()))
}

func TestReadUsersSkipsHeaderEmptyAndInvalidRows(t *testing.T) {
	r := buildSheet(t, [][]any{
		{"Name", "DOB", "Email", "Password", "Phone", "Gender", "Address"},
		{"Valid", "01/01/1990", "v@x.com", "pw", "1", "", ""},
		{},
		{"", "01/01/1990", "noname@x.com", "pw", "1", "", ""},
		{"No Email", "01/01/1990", "", "pw", "1", "", ""},
		{"Bad Date", "whenever", "bad@x.com", "pw", "1", "", ""},
	})

	users, err := ReadUsers(r, discardLogger())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Valid", users[0].Name)
}

func TestReadUsersISODates(t *testing.T) {
	r := buildSheet(t, [][]any{
		{"Name", "DOB", "Email", "Password", "Phone", "Gender", "Address"},
		{"Carol", "1992-03-07", "carol@x.com", "pw", "3", "", ""},
	})

	users, err := ReadUsers(r, discardLogger())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1992, users[0].DOB.Year())
	assert.Equal(t, 7, users[0].DOB.Day())
}

func TestReadUsersRejectsGarbageFile(t *testing.T) {
	_, err := ReadUsers(bytes.NewReader([]byte("not an xlsx file")), discardLogger())
	assert.Error(t, err)
}
