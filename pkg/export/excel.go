package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Row is one transaction line in an exported sheet. Label is the income
// source or expense category. Owner columns are filled for admin exports only.
type Row struct {
	Label      string
	Amount     decimal.Decimal
	Date       time.Time
	OwnerName  string
	OwnerEmail string
}

// Workbook renders rows into a single-sheet xlsx workbook. labelHeader names
// the first column ("Source" or "Category"). withOwner adds the UserName and
// UserEmail columns used by the admin export.
func Workbook(sheet, labelHeader string, rows []Row, withOwner bool) (*excelize.File, error) {
	f := excelize.NewFile()
	def := f.GetSheetName(0)
	if def != sheet {
		if err := f.SetSheetName(def, sheet); err != nil {
			return nil, err
		}
	}

	headers := []string{labelHeader, "Amount", "Date"}
	if withOwner {
		headers = append(headers, "UserName", "UserEmail")
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		values := []any{row.Label, row.Amount.InexactFloat64(), row.Date.Format("2006-01-02")}
		if withOwner {
			values = append(values, row.OwnerName, row.OwnerEmail)
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// WorkbookBytes renders rows like Workbook and returns the xlsx byte stream.
func WorkbookBytes(sheet, labelHeader string, rows []Row, withOwner bool) ([]byte, error) {
	f, err := Workbook(sheet, labelHeader, rows, withOwner)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
