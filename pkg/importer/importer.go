// Package importer parses bulk transaction files (CSV, JSON, XLSX)
// into validated records. Used by the HTTP upload endpoints and the
// drop-directory watcher.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat means the file extension is not one of .csv,
// .json or .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Record is one parsed transaction row, validated and ready to store.
type Record struct {
	Date          time.Time
	Type          string
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	Status        string
	DueDate       *time.Time
	Notes         string
}

// RowError reports one rejected row. Row is 1-based and counts data
// rows, not the header.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// rawRow is the untyped field set shared by all three formats.
type rawRow struct {
	Date          string
	Type          string
	Amount        string
	Category      string
	PaymentMethod string
	Status        string
	DueDate       string
	Notes         string
}

func (r rawRow) toRecord() (Record, error) {
	var rec Record
	date, err := parseDate(r.Date)
	if err != nil {
		return rec, err
	}
	rec.Date = date

	typ := strings.ToLower(strings.TrimSpace(r.Type))
	if typ != "income" && typ != "expense" {
		return rec, fmt.Errorf("invalid type %q", r.Type)
	}
	rec.Type = typ

	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return rec, fmt.Errorf("invalid amount %q", r.Amount)
	}
	if amount.IsNegative() {
		return rec, fmt.Errorf("negative amount %q", r.Amount)
	}
	rec.Amount = amount

	rec.Category = strings.TrimSpace(r.Category)
	if rec.Category == "" {
		return rec, errors.New("missing category")
	}

	rec.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
	if rec.PaymentMethod == "" {
		rec.PaymentMethod = "Other"
	}

	rec.Status = strings.TrimSpace(r.Status)
	switch rec.Status {
	case "":
		rec.Status = "Completed"
	case "Completed", "Pending":
	default:
		return rec, fmt.Errorf("invalid status %q", r.Status)
	}

	if strings.TrimSpace(r.DueDate) != "" {
		due, err := parseDate(r.DueDate)
		if err != nil {
			return rec, err
		}
		rec.DueDate = &due
	}
	rec.Notes = strings.TrimSpace(r.Notes)
	return rec, nil
}

// headerIndex maps normalized column names to positions. Both camelCase
// and snake_case spellings are accepted.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), "_", ""))
		idx[key] = i
	}
	return idx
}

func rowsToRecords(header []string, rows [][]string) ([]Record, []RowError) {
	idx := headerIndex(header)
	get := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	records := make([]Record, 0, len(rows))
	var rowErrs []RowError
	for n, row := range rows {
		raw := rawRow{
			Date:          get(row, "date"),
			Type:          get(row, "type"),
			Amount:        get(row, "amount"),
			Category:      get(row, "category"),
			PaymentMethod: get(row, "paymentmethod"),
			Status:        get(row, "status"),
			DueDate:       get(row, "duedate"),
			Notes:         get(row, "notes"),
		}
		rec, err := raw.toRecord()
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: n + 1, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrs
}

// ParseCSV reads a header row plus data rows. Invalid rows are reported
// in the second return and do not abort the parse.
func ParseCSV(r io.Reader) ([]Record, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, errors.New("empty csv")
	}
	records, rowErrs := rowsToRecords(all[0], all[1:])
	return records, rowErrs, nil
}

type jsonRow struct {
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	Amount        json.RawMessage `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	DueDate       string          `json:"dueDate"`
	Notes         string          `json:"notes"`
}

// ParseJSON reads an array of transaction objects. Amounts may be JSON
// numbers or strings.
func ParseJSON(r io.Reader) ([]Record, []RowError, error) {
	var rows []jsonRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("decode json: %w", err)
	}
	records := make([]Record, 0, len(rows))
	var rowErrs []RowError
	for n, row := range rows {
		raw := rawRow{
			Date:          row.Date,
			Type:          row.Type,
			Amount:        strings.Trim(string(row.Amount), `"`),
			Category:      row.Category,
			PaymentMethod: row.PaymentMethod,
			Status:        row.Status,
			DueDate:       row.DueDate,
			Notes:         row.Notes,
		}
		rec, err := raw.toRecord()
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: n + 1, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

// ParseXLSX reads the first sheet: header row plus data rows.
func ParseXLSX(r io.Reader) ([]Record, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("empty sheet")
	}
	records, rowErrs := rowsToRecords(rows[0], rows[1:])
	return records, rowErrs, nil
}

// Parse dispatches on the file name's extension.
func Parse(name string, r io.Reader) ([]Record, []RowError, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV(r)
	case ".json":
		return ParseJSON(r)
	case ".xlsx":
		return ParseXLSX(r)
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// ParseFile opens path and parses it by extension.
func ParseFile(path string) ([]Record, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Parse(filepath.Base(path), f)
}

// Supported reports whether the file name has a parseable extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".json", ".xlsx":
		return true
	}
	return false
}
