// Package casefile loads the case ledger from an Excel workbook.
package casefile

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// Columns are zero-based column indexes in the sheet. The sheet has no
// header row; rows without a numeric case number are skipped.
type Columns struct {
	AlternateNumber int
	CaseNumber      int
	Status          int
	PatientName     int
	DateOfInjury    int
	LawFirm         int
	AttorneyEmail   int
}

// DefaultColumns is the layout of the billing export.
func DefaultColumns() Columns {
	return Columns{
		AlternateNumber: 0,
		CaseNumber:      1,
		Status:          2,
		PatientName:     3,
		DateOfInjury:    4,
		LawFirm:         12,
		AttorneyEmail:   18,
	}
}

// Loader reads cases from a workbook on disk.
type Loader struct {
	path    string
	sheet   string
	columns Columns
	logger  *logger.Logger
}

// NewLoader creates a loader. An empty sheet means the first sheet.
func NewLoader(path, sheet string, columns Columns, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{path: path, sheet: sheet, columns: columns, logger: log}
}

// Load reads every case row from the workbook.
func (l *Loader) Load(ctx context.Context) ([]model.Case, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cases file %s: %w", l.path, err)
	}
	defer f.Close()

	return l.read(ctx, f)
}

// LoadReader reads cases from a workbook stream.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader) ([]model.Case, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open cases workbook: %w", err)
	}
	defer f.Close()

	return l.read(ctx, f)
}

func (l *Loader) read(ctx context.Context, f *excelize.File) ([]model.Case, error) {
	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("cases workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var cases []model.Case
	skipped := 0
	for i, row := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		number := normalizeNumber(cell(row, l.columns.CaseNumber))
		if number == "" {
			skipped++
			continue
		}

		cases = append(cases, model.Case{
			CaseNumber:      number,
			AlternateNumber: normalizeNumber(cell(row, l.columns.AlternateNumber)),
			PatientName:     cell(row, l.columns.PatientName),
			DateOfInjury:    normalizeDate(cell(row, l.columns.DateOfInjury)),
			AttorneyEmail:   strings.ToLower(cell(row, l.columns.AttorneyEmail)),
			LawFirm:         cell(row, l.columns.LawFirm),
			Status:          cell(row, l.columns.Status),
		})
	}

	l.logger.Info("Cases loaded", "sheet", sheet, "cases", len(cases), "skipped_rows", skipped)
	return cases, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[idx])
	switch strings.ToLower(v) {
	case "nan", "nat", "none":
		return ""
	}
	return v
}

// normalizeNumber drops the ".0" spreadsheets add to numeric ids and
// returns "" for values without digits.
func normalizeNumber(v string) string {
	v = strings.TrimSuffix(v, ".0")
	if !strings.ContainsAny(v, "0123456789") {
		return ""
	}
	return v
}

// normalizeDate turns an Excel serial date into 2006-01-02. Text dates pass
// through unchanged.
func normalizeDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial < 1 || serial > 2958465 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("2006-01-02")
}
