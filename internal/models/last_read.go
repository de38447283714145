package models

import (
	"time"
)

// LastRead marks a user's read position in a group. It is replaced wholesale
// on update, never partially merged.
type LastRead struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	GroupID   uint      `gorm:"primaryKey" json:"group_id"`
	MessageID uint      `gorm:"not null" json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
