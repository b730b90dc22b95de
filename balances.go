package main

import (
	"net/http"

	"finsight/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type balanceRequest struct {
	Date               string          `json:"date" binding:"required"`
	CurrentAssets      decimal.Decimal `json:"currentAssets"`
	CurrentLiabilities decimal.Decimal `json:"currentLiabilities"`
	TotalLiabilities   decimal.Decimal `json:"totalLiabilities"`
	TotalEquity        decimal.Decimal `json:"totalEquity"`
	Notes              string          `json:"notes"`
}

func (req balanceRequest) apply(bs *models.BalanceSheet) string {
	date, err := parseFlexibleDate(req.Date)
	if err != nil {
		return "invalid date"
	}
	if req.CurrentAssets.IsNegative() || req.CurrentLiabilities.IsNegative() ||
		req.TotalLiabilities.IsNegative() || req.TotalEquity.IsNegative() {
		return "balance figures must be non-negative"
	}
	bs.Date = date
	bs.CurrentAssets = req.CurrentAssets
	bs.CurrentLiabilities = req.CurrentLiabilities
	bs.TotalLiabilities = req.TotalLiabilities
	bs.TotalEquity = req.TotalEquity
	bs.Notes = req.Notes
	return ""
}

func createBalanceHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failErr(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	sheet := models.BalanceSheet{UserID: user.ID}
	if msg := req.apply(&sheet); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if err := db.Create(&sheet).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to create balance sheet")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "balance": sheet})
}

func listBalancesHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	sheets, err := loadBalanceSheets(user.ID, r)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch balance sheets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "balances": sheets})
}

func updateBalanceHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var sheet models.BalanceSheet
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&sheet).Error; err != nil {
		fail(c, http.StatusNotFound, "balance sheet not found")
		return
	}
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failErr(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if msg := req.apply(&sheet); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if err := db.Save(&sheet).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to update balance sheet")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "balance": sheet})
}

func deleteBalanceHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).Delete(&models.BalanceSheet{})
	if res.Error != nil {
		fail(c, http.StatusInternalServerError, "failed to delete balance sheet")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "balance sheet not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "balance sheet deleted"})
}
