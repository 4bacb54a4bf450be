package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const (
	ExportXLSX = "xlsx"
	ExportCSV  = "csv"
)

var exportHeaders = []string{"COMPANY", "TITLE", "STATUS", "DATE APPLIED", "URL", "NOTES", "CREATED AT"}

// exportNow is swapped in tests to get stable file names.
var exportNow = time.Now

// ExportApplications renders apps as an xlsx workbook or a CSV file. An empty
// format means xlsx.
func ExportApplications(apps []domain.JobApplication, format string) ([]byte, string, error) {
	switch format {
	case "", ExportXLSX:
		return exportExcel(apps)
	case ExportCSV:
		return exportCSV(apps)
	default:
		return nil, "", apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", format))
	}
}

func exportRow(a domain.JobApplication) []string {
	return []string{
		safeCell(a.Company),
		safeCell(a.Title),
		a.Status.Label(),
		safeCell(deref(a.DateApplied)),
		safeCell(deref(a.URL)),
		safeCell(deref(a.Notes)),
		a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// safeCell quotes user text that a spreadsheet would evaluate as a formula.
func safeCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}

func exportExcel(apps []domain.JobApplication) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, app := range apps {
		for colIdx, value := range exportRow(app) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("job_applications_%s.xlsx", exportNow().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func exportCSV(apps []domain.JobApplication) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, "", err
	}
	for _, app := range apps {
		if err := w.Write(exportRow(app)); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	filename := fmt.Sprintf("job_applications_%s.csv", exportNow().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
