package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create a transaction
	txBody, _ := json.Marshal(map[string]any{
		"date":          "2025-06-01",
		"type":          "expense",
		"amount":        125.50,
		"category":      "Food",
		"paymentMethod": "Cash",
		"status":        "Completed",
	})
	resp = performRequest(r, http.MethodPost, "/api/transactions/add-transaction", bytes.NewBuffer(txBody), token, "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("create transaction failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. List transactions with a range filter
	resp = performRequest(r, http.MethodGet, "/api/transactions/transactions?startDate=2025-06-01&endDate=2025-06-30", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list transactions failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Upload transactions via CSV (multipart)
	csvBody := "date,type,amount,category,paymentMethod,status\n2025-06-02,income,5000,Salary,Bank Transfer,Completed\n"
	uploadCSV := func(fileName string) *httptest.ResponseRecorder {
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		w, _ := mw.CreateFormFile("file", fileName)
		_, _ = w.Write([]byte(csvBody))
		_ = mw.Close()
		return performRequest(r, http.MethodPost, "/api/transactions/upload", buf, token, mw.FormDataContentType())
	}
	resp = uploadCSV("june.csv")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	// re-uploading the same file name must be rejected, not re-inserted
	if again := uploadCSV("june.csv"); again.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate upload got %d body=%s", again.Code, again.Body.String())
	}

	// 6. Create a budget and a balance sheet
	budgetBody, _ := json.Marshal(map[string]any{"month": "2025-06", "category": "Food", "budgetAmount": 500})
	resp = performRequest(r, http.MethodPost, "/api/budgets", bytes.NewBuffer(budgetBody), token, "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("create budget failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	balanceBody, _ := json.Marshal(map[string]any{
		"date":               "2025-06-30",
		"currentAssets":      10000,
		"currentLiabilities": 2000,
		"totalLiabilities":   3000,
		"totalEquity":        7000,
	})
	resp = performRequest(r, http.MethodPost, "/api/balances", bytes.NewBuffer(balanceBody), token, "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("create balance failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Reports
	for _, path := range []string{
		"/api/summary",
		"/api/summary/expense-distribution",
		"/api/trends?groupBy=monthly",
		"/api/trends/cashflow",
		"/api/balance-metrics/comparison",
		"/api/balance-metrics/health-score",
		"/api/budget-analysis/enhanced",
		"/api/budget-analysis/performance?months=3",
	} {
		resp = performRequest(r, http.MethodGet, path, nil, token, "")
		if resp.Code != 200 {
			t.Fatalf("%s failed status=%d body=%s", path, resp.Code, resp.Body.String())
		}
		var envelope map[string]any
		_ = json.Unmarshal(resp.Body.Bytes(), &envelope)
		if ok, _ := envelope["success"].(bool); !ok {
			t.Fatalf("%s returned success=false body=%s", path, resp.Body.String())
		}
	}

	// month-scoped utilization reports that month as the period and only
	// compares against that month's spend
	resp = performRequest(r, http.MethodGet, "/api/budget-analysis/utilization?month=2025-06", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("month-scoped utilization failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var util map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &util)
	if util["period"] != "2025-06" {
		t.Fatalf("expected period 2025-06 got %v", util["period"])
	}

	// 8. An inverted date range is a 400
	resp = performRequest(r, http.MethodGet, "/api/summary?startDate=2025-07-01&endDate=2025-06-01", nil, token, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range got %d", resp.Code)
	}

	// 9. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/api/transactions/transactions", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
