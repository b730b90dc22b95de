package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type and status values accepted by the API and the bulk importers.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	StatusCompleted = "Completed"
	StatusPending   = "Pending"
)

// Transaction is a single income or expense record belonging to a user.
// Created manually or via bulk upload; identity is immutable once created.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	UserID        uint            `gorm:"index;not null" json:"userId"`
	Date          time.Time       `gorm:"index;not null" json:"date"`
	Type          string          `gorm:"size:16;not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category      string          `gorm:"size:128;not null;index" json:"category"`
	PaymentMethod string          `gorm:"size:64;not null" json:"paymentMethod"`
	Status        string          `gorm:"size:16;not null" json:"status"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	Notes         string          `gorm:"size:1024" json:"notes"`
}

// ValidType reports whether t is one of the accepted transaction types.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// ValidStatus reports whether s is one of the accepted statuses.
func ValidStatus(s string) bool {
	return s == StatusCompleted || s == StatusPending
}
