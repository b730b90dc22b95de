package main

import (
	"net/http"
	"strconv"
	"time"

	"finsight/models"
	"finsight/pkg/analytics"

	"github.com/gin-gonic/gin"
)

// Report handlers: fetch the user's records, hand them to the
// analytics engine, wrap the result in the success envelope.

func incomeDistributionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch income distribution")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	result := analytics.DistributeIncome(engineTxs(txs), limit, r.Label())
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"totalIncome":     result.TotalIncome,
		"totalCategories": result.TotalCategories,
		"topCategories":   result.TopCategories,
		"chartData":       result.ChartData,
		"period":          result.Period,
	})
}

func expenseDistributionHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch expense distribution")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	result := analytics.DistributeExpense(engineTxs(txs), limit, r.Label())
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"totalExpense":    result.TotalExpense,
		"totalCategories": result.TotalCategories,
		"topCategories":   result.TopCategories,
		"chartData":       result.ChartData,
		"period":          result.Period,
	})
}

func paymentMethodAnalysisHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch payment method analysis")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	txType := analytics.TransactionType(c.Query("type"))
	result := analytics.AnalyzePaymentMethods(engineTxs(txs), txType, limit, r.Label())
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"summary":         result.Summary,
		"topMethods":      result.TopMethods,
		"chartData":       result.ChartData,
		"period":          result.Period,
		"transactionType": result.TransactionType,
	})
}

func paymentMethodTrendsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch payment method trends")
		return
	}
	groupBy := analytics.ParseGroupBy(c.Query("groupBy"))
	result := analytics.PaymentMethodTrends(engineTxs(txs), groupBy, c.Query("paymentMethod"), r.Label())
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"groupBy":       result.GroupBy,
		"paymentMethod": result.PaymentMethod,
		"chartData":     result.ChartData,
		"totalPeriods":  result.TotalPeriods,
		"period":        result.Period,
	})
}

func monthlyTrendsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{Category: c.Query("category")})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to compute monthly trends")
		return
	}
	trends := analytics.MonthlyExpenseTrends(engineTxs(txs))
	c.JSON(http.StatusOK, gin.H{"success": true, "trends": trends})
}

func cashFlowTrendsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to compute cash flow trends")
		return
	}
	groupBy := analytics.ParseGroupBy(c.DefaultQuery("period", "monthly"))
	trends := analytics.CashFlowTrends(engineTxs(txs), groupBy)
	c.JSON(http.StatusOK, gin.H{"success": true, "period": groupBy, "cashFlowTrends": trends})
}

func comprehensiveTrendsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{Category: c.Query("category")})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to compute trends")
		return
	}
	groupBy := analytics.ParseGroupBy(c.Query("groupBy"))
	result := analytics.ComprehensiveTrends(engineTxs(txs), groupBy, r.Label())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"groupBy": result.GroupBy,
		"summary": result.Summary,
		"trends":  result.Trends,
		"period":  result.Period,
	})
}

func weeklyIncomeTrendsHandler(c *gin.Context) {
	weeklyTrendsByType(c, analytics.Income)
}

func weeklyExpenseTrendsHandler(c *gin.Context) {
	weeklyTrendsByType(c, analytics.Expense)
}

func weeklyTrendsByType(c *gin.Context, txType analytics.TransactionType) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{Category: c.Query("category")})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to compute weekly trends")
		return
	}
	trends := analytics.WeeklyTrends(engineTxs(txs), txType)
	c.JSON(http.StatusOK, gin.H{"success": true, "trends": trends, "groupBy": "weekly"})
}

// balanceMetricsHandler lists every snapshot with its derived ratios.
func balanceMetricsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	sheets, err := loadBalanceSheets(user.ID, analytics.DateRange{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch balance metrics")
		return
	}
	type metric struct {
		ID   uint      `json:"id"`
		Date time.Time `json:"date"`
		analytics.RatioSet
		CurrentAssets      float64 `json:"currentAssets"`
		CurrentLiabilities float64 `json:"currentLiabilities"`
		TotalLiabilities   float64 `json:"totalLiabilities"`
		TotalEquity        float64 `json:"totalEquity"`
	}
	engine := engineSheets(sheets)
	metrics := make([]metric, len(sheets))
	for i, s := range sheets {
		ca, _ := s.CurrentAssets.Float64()
		cl, _ := s.CurrentLiabilities.Float64()
		tl, _ := s.TotalLiabilities.Float64()
		te, _ := s.TotalEquity.Float64()
		metrics[i] = metric{
			ID:                 s.ID,
			Date:               s.Date,
			RatioSet:           analytics.Ratios(engine[i]),
			CurrentAssets:      ca,
			CurrentLiabilities: cl,
			TotalLiabilities:   tl,
			TotalEquity:        te,
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "metrics": metrics})
}

func balanceComparisonHandler(c *gin.Context) {
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
		fail(c, http.StatusInternalServerError, "failed to fetch balance comparison")
		return
	}
	groupBy := analytics.ParseGroupBy(c.Query("groupBy"))
	result := analytics.AssetsVsLiabilities(engineSheets(sheets), groupBy)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"groupBy":      result.GroupBy,
		"summary":      result.Summary,
		"chartData":    result.ChartData,
		"totalPeriods": result.TotalPeriods,
	})
}

func healthScoreHandler(c *gin.Context) {
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
		fail(c, http.StatusInternalServerError, "failed to compute health score")
		return
	}
	txs, err := loadTransactions(user.ID, r, txQuery{})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to compute health score")
		return
	}
	budgets, err := loadBudgets(user.ID, "", "")
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to compute health score")
		return
	}
	filtered, err := analytics.FilterPlacedBudgetsByRange(engineBudgets(budgets), r, r.ReferenceYear(time.Now()))
	if err != nil {
		failErr(c, statusForEngineError(err), "failed to compute health score", err)
		return
	}
	lines, err := analytics.DedupeBudgets(filtered, r.ReferenceYear(time.Now()))
	if err != nil {
		failErr(c, statusForEngineError(err), "failed to compute health score", err)
		return
	}
	report := analytics.HealthScore(latestSheet(sheets), engineTxs(txs), lines)
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"overall":            report.Overall,
		"componentScores":    report.ComponentScores,
		"financialMetrics":   report.FinancialMetrics,
		"transactionMetrics": report.TransactionMetrics,
		"budgetMetrics":      report.BudgetMetrics,
	})
}

// dedupedBudgetLines loads and normalizes the user's budgets for the
// budget analysis endpoints.
func dedupedBudgetLines(c *gin.Context, userID uint, r analytics.DateRange) ([]analytics.BudgetLine, bool) {
	budgets, err := loadBudgets(userID, c.Query("month"), c.Query("category"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch budgets")
		return nil, false
	}
	refYear := r.ReferenceYear(time.Now())
	filtered, err := analytics.FilterBudgetsByRange(engineBudgets(budgets), r, refYear)
	if err != nil {
		failErr(c, statusForEngineError(err), "failed to normalize budgets", err)
		return nil, false
	}
	lines, err := analytics.DedupeBudgets(filtered, refYear)
	if err != nil {
		failErr(c, statusForEngineError(err), "failed to normalize budgets", err)
		return nil, false
	}
	return lines, true
}

func loadExpenses(c *gin.Context, userID uint, r analytics.DateRange) ([]analytics.Transaction, bool) {
	txs, err := loadTransactions(userID, r, txQuery{Type: models.TypeExpense, Category: c.Query("category")})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch transactions")
		return nil, false
	}
	return engineTxs(txs), true
}

func budgetAnalysisHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	lines, ok := dedupedBudgetLines(c, user.ID, r)
	if !ok {
		return
	}
	expenses, ok := loadExpenses(c, user.ID, r)
	if !ok {
		return
	}
	rows := analytics.VarianceAnalysis(lines, expenses)
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": rows, "period": r.Label()})
}

// monthScopedRange narrows the range to the month query param's
// calendar month when one is supplied, so a month-scoped analysis
// compares that month's budget against that month's spend only.
func monthScopedRange(c *gin.Context, r analytics.DateRange) (analytics.DateRange, string, bool) {
	month := c.Query("month")
	if month == "" {
		return r, r.Label(), true
	}
	mr, err := analytics.MonthRange(month, time.Now().Year())
	if err != nil {
		failErr(c, statusForEngineError(err), "invalid month", err)
		return analytics.DateRange{}, "", false
	}
	return mr, month, true
}

func budgetUtilizationHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	r, period, ok := monthScopedRange(c, r)
	if !ok {
		return
	}
	lines, ok := dedupedBudgetLines(c, user.ID, r)
	if !ok {
		return
	}
	expenses, ok := loadExpenses(c, user.ID, r)
	if !ok {
		return
	}
	result := analytics.Utilization(lines, expenses)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"overall":    result.Overall,
		"byCategory": result.ByCategory,
		"period":     period,
	})
}

func enhancedBudgetAnalysisHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	r, period, ok := monthScopedRange(c, r)
	if !ok {
		return
	}
	lines, ok := dedupedBudgetLines(c, user.ID, r)
	if !ok {
		return
	}
	expenses, ok := loadExpenses(c, user.ID, r)
	if !ok {
		return
	}
	result := analytics.EnhancedAnalysis(lines, expenses)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"overall":         result.Overall,
		"byCategory":      result.ByCategory,
		"topPerformers":   result.TopPerformers,
		"underPerformers": result.UnderPerformers,
		"totalCategories": result.TotalCategories,
		"period":          period,
	})
}

// budgetPerformanceHandler walks month by month; without an explicit
// range it covers the trailing months window (default six).
func budgetPerformanceHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	months, err := strconv.Atoi(c.DefaultQuery("months", "6"))
	if err != nil || months <= 0 {
		months = 6
	}
	now := time.Now().UTC()
	start := now.AddDate(0, -months, 0)
	end := now
	if r.Start != nil {
		start = *r.Start
	}
	if r.End != nil {
		end = r.End.AddDate(0, 0, -1)
	}

	budgets, err := loadBudgets(user.ID, "", c.Query("category"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch budgets")
		return
	}
	expenses, ok := loadExpenses(c, user.ID, analytics.DateRange{})
	if !ok {
		return
	}
	result, err := analytics.MonthlyBudgetPerformance(engineBudgets(budgets), expenses, start, end)
	if err != nil {
		failErr(c, statusForEngineError(err), "failed to compute budget performance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"overall":             result.Overall,
		"monthlyPerformance":  result.MonthlyPerformance,
		"utilizationTrend":    result.UtilizationTrend,
		"performanceInsights": result.Insights,
		"period":              r.Label(),
	})
}
