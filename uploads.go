package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"finsight/models"
	"finsight/pkg/importer"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const maxUploadBytes = 10 * 1024 * 1024

// openUpload validates and opens the multipart "file" field.
func openUpload(c *gin.Context) (multipart.File, string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "no file uploaded")
		return nil, "", false
	}
	if fh.Size > maxUploadBytes {
		fail(c, http.StatusBadRequest, "file too large (max 10MB)")
		return nil, "", false
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to read upload")
		return nil, "", false
	}
	return f, fh.Filename, true
}

// claimImport writes the dedup audit row. It runs before the data rows,
// inside the same transaction, so a concurrent upload of the same file
// name aborts on the unique index instead of double-inserting rows.
func claimImport(dbtx *gorm.DB, userID uint, fileName, source, batchID string, count int, total decimal.Decimal) error {
	imp := models.ImportFile{
		UserID:      userID,
		FileName:    fileName,
		Source:      source,
		BatchID:     batchID,
		RecordCount: count,
		TotalAmount: total,
	}
	return dbtx.Create(&imp).Error
}

func alreadyImported(userID uint, fileName string) bool {
	var cnt int64
	db.Model(&models.ImportFile{}).Where("user_id = ? AND file_name = ?", userID, fileName).Count(&cnt)
	return cnt > 0
}

func uploadTransactionsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	f, name, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	if alreadyImported(user.ID, name) {
		fail(c, http.StatusConflict, "file already imported")
		return
	}

	records, rowErrs, err := importer.Parse(name, f)
	if err != nil {
		failErr(c, http.StatusBadRequest, "failed to parse file", err)
		return
	}
	if len(records) == 0 {
		fail(c, http.StatusBadRequest, "no valid rows found in file")
		return
	}

	batchID := uuid.NewString()
	txs := make([]models.Transaction, len(records))
	total := decimal.Zero
	for i, rec := range records {
		txs[i] = models.Transaction{
			UserID:        user.ID,
			Date:          rec.Date,
			Type:          rec.Type,
			Amount:        rec.Amount,
			Category:      rec.Category,
			PaymentMethod: rec.PaymentMethod,
			Status:        rec.Status,
			DueDate:       rec.DueDate,
			Notes:         rec.Notes,
		}
		total = total.Add(rec.Amount)
	}
	err = db.Transaction(func(dbtx *gorm.DB) error {
		if err := claimImport(dbtx, user.ID, name, models.ImportSourceAPI, batchID, len(txs), total); err != nil {
			return err
		}
		return dbtx.Create(&txs).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			fail(c, http.StatusConflict, "file already imported")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to store transactions")
		return
	}

	skipped := make([]string, 0, len(rowErrs))
	for _, re := range rowErrs {
		skipped = append(skipped, re.Error())
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "transactions uploaded successfully",
		"batchId": batchID,
		"count":   len(txs),
		"skipped": skipped,
	})
}

// rowsFromUpload reads any supported tabular format into field maps
// keyed by normalized header name.
func rowsFromUpload(name string, r io.Reader) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		all, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(all) == 0 {
			return nil, errors.New("empty csv")
		}
		return tableToMaps(all[0], all[1:]), nil
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open xlsx: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("xlsx has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read xlsx rows: %w", err)
		}
		if len(rows) == 0 {
			return nil, errors.New("empty sheet")
		}
		return tableToMaps(rows[0], rows[1:]), nil
	case ".json":
		var raw []map[string]any
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		out := make([]map[string]string, len(raw))
		for i, row := range raw {
			m := make(map[string]string, len(row))
			for k, v := range row {
				m[normalizeKey(k)] = fmt.Sprintf("%v", v)
			}
			out[i] = m
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported file format: %s", name)
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(k), "_", ""))
}

func tableToMaps(header []string, rows [][]string) []map[string]string {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = normalizeKey(h)
	}
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(keys))
		for i, k := range keys {
			if i < len(row) {
				m[k] = strings.TrimSpace(row[i])
			}
		}
		out = append(out, m)
	}
	return out
}

func uploadBudgetsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	f, name, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	if alreadyImported(user.ID, name) {
		fail(c, http.StatusConflict, "file already imported")
		return
	}
	rows, err := rowsFromUpload(name, f)
	if err != nil {
		failErr(c, http.StatusBadRequest, "failed to parse file", err)
		return
	}
	if len(rows) == 0 {
		fail(c, http.StatusBadRequest, "no data found in uploaded file")
		return
	}

	budgets := make([]models.Budget, 0, len(rows))
	total := decimal.Zero
	for i, row := range rows {
		month, category := row["month"], row["category"]
		if month == "" || category == "" {
			failErr(c, http.StatusBadRequest, "missing required fields in some rows",
				fmt.Errorf("row %d: month and category are required", i+1))
			return
		}
		amount, err := decimal.NewFromString(row["budgetamount"])
		if err != nil || amount.IsNegative() {
			failErr(c, http.StatusBadRequest, "invalid budget amount",
				fmt.Errorf("row %d: %q", i+1, row["budgetamount"]))
			return
		}
		budgets = append(budgets, models.Budget{
			UserID:       user.ID,
			Month:        month,
			Category:     category,
			BudgetAmount: amount,
			Notes:        row["notes"],
		})
		total = total.Add(amount)
	}

	batchID := uuid.NewString()
	err = db.Transaction(func(dbtx *gorm.DB) error {
		if err := claimImport(dbtx, user.ID, name, models.ImportSourceAPI, batchID, len(budgets), total); err != nil {
			return err
		}
		return dbtx.Create(&budgets).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			fail(c, http.StatusConflict, "file already imported")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to store budgets")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "budget uploaded successfully",
		"batchId": batchID,
		"count":   len(budgets),
	})
}

func uploadBalancesHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	f, name, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	if alreadyImported(user.ID, name) {
		fail(c, http.StatusConflict, "file already imported")
		return
	}
	rows, err := rowsFromUpload(name, f)
	if err != nil {
		failErr(c, http.StatusBadRequest, "failed to parse file", err)
		return
	}
	if len(rows) == 0 {
		fail(c, http.StatusBadRequest, "no data found in uploaded file")
		return
	}

	sheets := make([]models.BalanceSheet, 0, len(rows))
	total := decimal.Zero
	for i, row := range rows {
		date, err := parseFlexibleDate(row["date"])
		if err != nil {
			failErr(c, http.StatusBadRequest, "invalid date",
				fmt.Errorf("row %d: %q", i+1, row["date"]))
			return
		}
		figure := func(key string) (decimal.Decimal, error) {
			v := row[key]
			if v == "" {
				return decimal.Zero, nil
			}
			d, err := decimal.NewFromString(v)
			if err != nil || d.IsNegative() {
				return decimal.Zero, fmt.Errorf("row %d: invalid %s %q", i+1, key, v)
			}
			return d, nil
		}
		var figures [4]decimal.Decimal
		bad := false
		for j, key := range []string{"currentassets", "currentliabilities", "totalliabilities", "totalequity"} {
			d, err := figure(key)
			if err != nil {
				failErr(c, http.StatusBadRequest, "invalid balance figures", err)
				bad = true
				break
			}
			figures[j] = d
		}
		if bad {
			return
		}
		sheets = append(sheets, models.BalanceSheet{
			UserID:             user.ID,
			Date:               date,
			CurrentAssets:      figures[0],
			CurrentLiabilities: figures[1],
			TotalLiabilities:   figures[2],
			TotalEquity:        figures[3],
			Notes:              row["notes"],
		})
		total = total.Add(figures[0])
	}

	batchID := uuid.NewString()
	err = db.Transaction(func(dbtx *gorm.DB) error {
		if err := claimImport(dbtx, user.ID, name, models.ImportSourceAPI, batchID, len(sheets), total); err != nil {
			return err
		}
		return dbtx.Create(&sheets).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			fail(c, http.StatusConflict, "file already imported")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to store balance sheets")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "balance sheets uploaded successfully",
		"batchId": batchID,
		"count":   len(sheets),
	})
}
