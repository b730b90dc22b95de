package main

import (
	"net/http"

	"finsight/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type budgetRequest struct {
	Month        string          `json:"month" binding:"required"`
	Category     string          `json:"category" binding:"required"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
	Notes        string          `json:"notes"`
}

func (req budgetRequest) apply(b *models.Budget) string {
	if req.BudgetAmount.IsNegative() {
		return "budgetAmount must be non-negative"
	}
	b.Month = req.Month
	b.Category = req.Category
	b.BudgetAmount = req.BudgetAmount
	b.Notes = req.Notes
	return ""
}

func createBudgetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failErr(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	budget := models.Budget{UserID: user.ID}
	if msg := req.apply(&budget); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if err := db.Create(&budget).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "budget": budget})
}

func listBudgetsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	budgets, err := loadBudgets(user.ID, c.Query("month"), c.Query("category"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch budgets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "budgets": budgets})
}

func updateBudgetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var budget models.Budget
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&budget).Error; err != nil {
		fail(c, http.StatusNotFound, "budget not found")
		return
	}
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failErr(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if msg := req.apply(&budget); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if err := db.Save(&budget).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to update budget")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "budget": budget})
}

func deleteBudgetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).Delete(&models.Budget{})
	if res.Error != nil {
		fail(c, http.StatusInternalServerError, "failed to delete budget")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "budget not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "budget deleted"})
}
