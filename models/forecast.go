package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Forecast is a stored projection produced by the external ML service.
// The API serves it read-only; per-month series are kept as serialized
// JSON exactly as received.
type Forecast struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	UserID                uint            `gorm:"index;not null" json:"userId"`
	GeneratedAt           time.Time       `gorm:"index;not null" json:"generated_at"`
	TotalProjectedIncome  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_projected_income"`
	TotalProjectedExpense decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_projected_expense"`
	TotalProjectedProfit  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_projected_profit"`
	IncomeForecastJSON    string          `gorm:"type:text" json:"income_forecast_json"`
	ExpenseForecastJSON   string          `gorm:"type:text" json:"expense_forecast_json"`
	ForecastHorizonMonths int             `json:"forecast_horizon_months"`
	ModelVersion          string          `gorm:"size:64" json:"model_version"`
}
