package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Import sources.
const (
	ImportSourceAPI   = "api"
	ImportSourceWatch = "watch"
)

// ImportFile records a bulk import so the same file is never ingested
// twice for a user. Written by the upload endpoints and the drop-dir
// watcher.
type ImportFile struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	UserID      uint            `gorm:"index;not null;uniqueIndex:idx_user_import_file" json:"userId"`
	FileName    string          `gorm:"size:255;not null;uniqueIndex:idx_user_import_file" json:"fileName"`
	Source      string          `gorm:"size:16;not null" json:"source"`
	BatchID     string          `gorm:"size:64;not null;index" json:"batchId"`
	RecordCount int             `gorm:"not null" json:"recordCount"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalAmount"`
}
