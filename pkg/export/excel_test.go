package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookUserColumns(t *testing.T) {
	rows := []Row{
		{Label: "Groceries", Amount: decimal.NewFromInt(120), Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Label: "Fuel", Amount: decimal.RequireFromString("45.5"), Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
	}
	f, err := Workbook("Expenses", "Category", rows, false)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Expenses", "A1")
	require.NoError(t, err)
	require.Equal(t, "Category", got)

	got, err = f.GetCellValue("Expenses", "A2")
	require.NoError(t, err)
	require.Equal(t, "Groceries", got)

	got, err = f.GetCellValue("Expenses", "B3")
	require.NoError(t, err)
	require.Equal(t, "45.5", got)

	got, err = f.GetCellValue("Expenses", "C2")
	require.NoError(t, err)
	require.Equal(t, "2026-03-10", got)

	// no owner columns in the user export
	got, err = f.GetCellValue("Expenses", "D1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWorkbookAdminColumns(t *testing.T) {
	rows := []Row{
		{Label: "Salary", Amount: decimal.NewFromInt(4200), Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), OwnerName: "Ada Lovelace", OwnerEmail: "ada@example.com"},
	}
	f, err := Workbook("Income", "Source", rows, true)
	require.NoError(t, err)
	defer f.Close()

	for cell, want := range map[string]string{
		"D1": "UserName",
		"E1": "UserEmail",
		"D2": "Ada Lovelace",
		"E2": "ada@example.com",
	} {
		got, err := f.GetCellValue("Income", cell)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestWorkbookBytesIsReadableXLSX(t *testing.T) {
	data, err := WorkbookBytes("Income", "Source", nil, false)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, "Income", f.GetSheetName(0))
}
