package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"finsight/models"
	"finsight/pkg/analytics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)

	api := r.Group("/api")
	api.Use(jwtAuthMiddleware())

	tx := api.Group("/transactions")
	tx.POST("/add-transaction", createTransactionHandler)
	tx.GET("/transactions", listTransactionsHandler)
	tx.PUT("/transaction/:id", updateTransactionHandler)
	tx.DELETE("/transaction/:id", deleteTransactionHandler)
	tx.POST("/upload", uploadTransactionsHandler)

	budgets := api.Group("/budgets")
	budgets.GET("", listBudgetsHandler)
	budgets.POST("", createBudgetHandler)
	budgets.PUT("/:id", updateBudgetHandler)
	budgets.DELETE("/:id", deleteBudgetHandler)
	budgets.POST("/upload", uploadBudgetsHandler)

	balances := api.Group("/balances")
	balances.GET("", listBalancesHandler)
	balances.POST("", createBalanceHandler)
	balances.PUT("/:id", updateBalanceHandler)
	balances.DELETE("/:id", deleteBalanceHandler)
	balances.POST("/upload", uploadBalancesHandler)

	summary := api.Group("/summary")
	summary.GET("", summaryHandler)
	summary.GET("/income-distribution", incomeDistributionHandler)
	summary.GET("/expense-distribution", expenseDistributionHandler)
	summary.GET("/payment-methods", paymentMethodAnalysisHandler)
	summary.GET("/payment-method-trends", paymentMethodTrendsHandler)

	trends := api.Group("/trends")
	trends.GET("", comprehensiveTrendsHandler)
	trends.GET("/monthly", monthlyTrendsHandler)
	trends.GET("/cashflow", cashFlowTrendsHandler)
	trends.GET("/weekly/income", weeklyIncomeTrendsHandler)
	trends.GET("/weekly/expense", weeklyExpenseTrendsHandler)

	metrics := api.Group("/balance-metrics")
	metrics.GET("", balanceMetricsHandler)
	metrics.GET("/comparison", balanceComparisonHandler)
	metrics.GET("/health-score", healthScoreHandler)

	analysis := api.Group("/budget-analysis")
	analysis.GET("", budgetAnalysisHandler)
	analysis.GET("/utilization", budgetUtilizationHandler)
	analysis.GET("/enhanced", enhancedBudgetAnalysisHandler)
	analysis.GET("/performance", budgetPerformanceHandler)

	forecast := api.Group("/insightedge")
	forecast.GET("/forecast", latestForecastHandler)
	forecast.GET("/forecast/history", forecastHistoryHandler)
	forecast.DELETE("/forecast/:id", deleteForecastHandler)
}

// fail writes the error envelope the frontend expects.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failErr additionally carries the underlying error text.
func failErr(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{"success": false, "message": message, "error": err.Error()})
}

// statusForEngineError maps the engine's typed failures onto HTTP codes.
func statusForEngineError(err error) int {
	if errors.Is(err, analytics.ErrInvalidMonthLabel) || errors.Is(err, analytics.ErrInvalidDateRange) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// rangeFromQuery parses the startDate/endDate query params shared by
// every report endpoint.
func rangeFromQuery(c *gin.Context) (analytics.DateRange, bool) {
	r, err := analytics.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		failErr(c, http.StatusBadRequest, "invalid date range", err)
		return analytics.DateRange{}, false
	}
	return r, true
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	username := usernameVal.(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// requireUser resolves the authenticated user or writes the 401 itself.
func requireUser(c *gin.Context) (*models.User, bool) {
	user, ok := getUserFromContext(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not found")
		return nil, false
	}
	return user, true
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := signAccessToken(user, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// signAccessToken builds an HS256 token with the username and resolved role name.
func signAccessToken(user models.User, ttl time.Duration) (string, error) {
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := signAccessToken(user, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
