package models

import "time"

// Role represents user roles with numeric primary key
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
}
