package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSheet is a point-in-time snapshot of a user's financial position.
// Multiple snapshots form a per-user time series.
type BalanceSheet struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	UserID             uint            `gorm:"index;not null" json:"userId"`
	Date               time.Time       `gorm:"index;not null" json:"date"`
	CurrentAssets      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"currentAssets"`
	CurrentLiabilities decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"currentLiabilities"`
	TotalLiabilities   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalLiabilities"`
	TotalEquity        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalEquity"`
	Notes              string          `gorm:"size:1024" json:"notes"`
}
