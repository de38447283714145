package models

import (
	"time"
)

// Message is append-only: rows are created once, never updated, and destroyed
// in bulk when their group is destroyed. The primary key allocation order is
// strictly increasing, which makes ID the authoritative sort and cursor key
// for the feed.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Text    string `gorm:"type:text;not null" json:"text"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"-"`
	GroupID uint   `gorm:"not null;index" json:"group_id"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	From      UserRef   `json:"from"`
	GroupID   uint      `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Text:      m.Text,
		From:      m.User.ToRef(),
		GroupID:   m.GroupID,
		CreatedAt: m.CreatedAt,
	}
}
