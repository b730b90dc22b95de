package main

import (
	"net/http"
	"time"

	"finsight/models"
	"finsight/pkg/analytics"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Date          string          `json:"date" binding:"required"`
	Type          string          `json:"type" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	Status        string          `json:"status" binding:"required"`
	DueDate       string          `json:"dueDate"`
	Notes         string          `json:"notes"`
}

// apply validates the request and writes it onto tx. Returns a
// user-facing message on failure.
func (req transactionRequest) apply(tx *models.Transaction) string {
	date, err := parseFlexibleDate(req.Date)
	if err != nil {
		return "invalid date"
	}
	if !models.ValidType(req.Type) {
		return "type must be income or expense"
	}
	if req.Amount.IsNegative() {
		return "amount must be non-negative"
	}
	if !models.ValidStatus(req.Status) {
		return "status must be Completed or Pending"
	}
	tx.Date = date
	tx.Type = req.Type
	tx.Amount = req.Amount
	tx.Category = req.Category
	tx.PaymentMethod = req.PaymentMethod
	tx.Status = req.Status
	tx.Notes = req.Notes
	tx.DueDate = nil
	if req.DueDate != "" {
		due, err := parseFlexibleDate(req.DueDate)
		if err != nil {
			return "invalid dueDate"
		}
		tx.DueDate = &due
	}
	return ""
}

var flexibleDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

func parseFlexibleDate(s string) (time.Time, error) {
	var last error
	for _, layout := range flexibleDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		last = err
	}
	return time.Time{}, last
}

func createTransactionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failErr(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	tx := models.Transaction{UserID: user.ID}
	if msg := req.apply(&tx); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if err := db.Create(&tx).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": tx})
}

func listTransactionsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{
		Category:      c.Query("category"),
		Type:          c.Query("type"),
		Status:        c.Query("status"),
		PaymentMethod: c.Query("paymentMethod"),
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": txs})
}

func updateTransactionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var tx models.Transaction
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&tx).Error; err != nil {
		fail(c, http.StatusNotFound, "transaction not found")
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failErr(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if msg := req.apply(&tx); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if err := db.Save(&tx).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
}

func deleteTransactionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).Delete(&models.Transaction{})
	if res.Error != nil {
		fail(c, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "transaction not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "transaction deleted"})
}

func summaryHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	// The upcoming payments count needs the full set, not the range.
	txs, err := loadTransactions(user.ID, analytics.DateRange{}, txQuery{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	summary := analytics.Summarize(engineTxs(txs), r, time.Now())
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}
