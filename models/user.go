package models

import (
	"time"
)

// User model
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `gorm:"index" json:"-"`
	Username       string     `gorm:"size:255;not null;unique" json:"username"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	RoleID         *uint      `gorm:"index" json:"roleId,omitempty"`
	Role           Role       `gorm:"foreignKey:RoleID;references:ID" json:"-"`
}
