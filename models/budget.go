package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly allocation for a spending category.
// Month may be a canonical "YYYY-MM" key or a free-form month name
// ("June"); duplicates under different spellings may coexist in storage
// and are collapsed at read time by the analytics layer.
type Budget struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	UserID       uint            `gorm:"index;not null" json:"userId"`
	Month        string          `gorm:"size:32;not null;index" json:"month"`
	Category     string          `gorm:"size:128;not null;index" json:"category"`
	BudgetAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"budgetAmount"`
	Notes        string          `gorm:"size:1024" json:"notes"`
}
