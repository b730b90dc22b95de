package main

import (
	"finsight/models"
	"finsight/pkg/analytics"
)

// Per-user query helpers shared by the CRUD and report handlers. Every
// query is scoped to one user; admin-wide views are not part of the API.

// txQuery are the optional exact-match filters on transaction listings.
type txQuery struct {
	Category      string
	Type          string
	Status        string
	PaymentMethod string
}

func loadTransactions(userID uint, r analytics.DateRange, f txQuery) ([]models.Transaction, error) {
	q := db.Where("user_id = ?", userID)
	if r.Start != nil {
		q = q.Where("date >= ?", *r.Start)
	}
	if r.End != nil {
		q = q.Where("date < ?", *r.End)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentMethod != "" {
		q = q.Where("payment_method = ?", f.PaymentMethod)
	}
	var txs []models.Transaction
	if err := q.Order("date asc, id asc").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func loadBudgets(userID uint, month, category string) ([]models.Budget, error) {
	q := db.Where("user_id = ?", userID)
	if month != "" {
		q = q.Where("month = ?", month)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var budgets []models.Budget
	if err := q.Order("id asc").Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func loadBalanceSheets(userID uint, r analytics.DateRange) ([]models.BalanceSheet, error) {
	q := db.Where("user_id = ?", userID)
	if r.Start != nil {
		q = q.Where("date >= ?", *r.Start)
	}
	if r.End != nil {
		q = q.Where("date < ?", *r.End)
	}
	var sheets []models.BalanceSheet
	if err := q.Order("date asc, id asc").Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

// engineTxs converts stored transactions into the engine's input form.
func engineTxs(txs []models.Transaction) []analytics.Transaction {
	out := make([]analytics.Transaction, len(txs))
	for i, t := range txs {
		out[i] = analytics.Transaction{
			Date:          t.Date,
			Type:          analytics.TransactionType(t.Type),
			Amount:        t.Amount,
			Category:      t.Category,
			PaymentMethod: t.PaymentMethod,
			Status:        t.Status,
			DueDate:       t.DueDate,
		}
	}
	return out
}

func engineBudgets(budgets []models.Budget) []analytics.Budget {
	out := make([]analytics.Budget, len(budgets))
	for i, b := range budgets {
		out[i] = analytics.Budget{Month: b.Month, Category: b.Category, Amount: b.BudgetAmount}
	}
	return out
}

func engineSheets(sheets []models.BalanceSheet) []analytics.BalanceSheet {
	out := make([]analytics.BalanceSheet, len(sheets))
	for i, s := range sheets {
		out[i] = analytics.BalanceSheet{
			Date:               s.Date,
			CurrentAssets:      s.CurrentAssets,
			CurrentLiabilities: s.CurrentLiabilities,
			TotalLiabilities:   s.TotalLiabilities,
			TotalEquity:        s.TotalEquity,
		}
	}
	return out
}

// latestSheet picks the most recent snapshot, nil when there is none.
func latestSheet(sheets []models.BalanceSheet) *analytics.BalanceSheet {
	if len(sheets) == 0 {
		return nil
	}
	latest := sheets[0]
	for _, s := range sheets[1:] {
		if s.Date.After(latest.Date) {
			latest = s
		}
	}
	es := analytics.BalanceSheet{
		Date:               latest.Date,
		CurrentAssets:      latest.CurrentAssets,
		CurrentLiabilities: latest.CurrentLiabilities,
		TotalLiabilities:   latest.TotalLiabilities,
		TotalEquity:        latest.TotalEquity,
	}
	return &es
}
