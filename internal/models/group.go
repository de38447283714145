package models

import (
	"time"

	"gorm.io/gorm"
)

type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"size:100;not null" json:"name"`

	// IconKey is the object-storage key of the group icon; "" means no icon.
	// Clients never see the key, only time-limited signed URLs.
	IconKey string `json:"-"`

	Members  []*User   `gorm:"many2many:group_members" json:"members,omitempty"`
	Messages []Message `gorm:"foreignKey:GroupID" json:"-"`
}

// GroupRef is the minimized projection used when resolving a message's
// target group for a non-owner.
type GroupRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (g *Group) ToRef() GroupRef {
	return GroupRef{ID: g.ID, Name: g.Name}
}
