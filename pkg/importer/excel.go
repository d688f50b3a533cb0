package importer

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"go-user-warehouse/internal/domain/entity"
)

// Column layout of an import sheet, after the header row:
// name | dob | email | password | phone | gender | address
const (
	colName = iota
	colDOB
	colEmail
	colPassword
	colPhone
	colGender
	colAddress
)

// Accepted date-of-birth renderings. dd/MM/yyyy is the documented format;
// the others cover date-styled cells as excelize formats them.
var dobLayouts = []string{"02/01/2006", "2006-01-02", "01-02-06"}

// ReadUsers parses user records from the first sheet of an xlsx file. The
// header row and empty rows are skipped; a row missing name, email or a
// parseable dob is logged and dropped, never fatal.
func ReadUsers(r io.Reader, logger *logrus.Logger) ([]*entity.User, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetList()[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(rows))
	for i, row := range rows {
		if i == 0 || isEmpty(row) {
			continue
		}
		u := &entity.User{
			Name:     cell(row, colName),
			Email:    cell(row, colEmail),
			Password: cell(row, colPassword),
			Phone:    cell(row, colPhone),
			Gender:   cell(row, colGender),
			Address:  cell(row, colAddress),
		}
		dob, ok := parseDOB(cell(row, colDOB))
		if u.Name == "" || u.Email == "" || !ok {
			logger.WithField("row", i+1).Warn("import: skipping invalid row")
			continue
		}
		u.DOB = dob
		users = append(users, u)
	}
	return users, nil
}

func parseDOB(s string) (time.Time, bool) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
