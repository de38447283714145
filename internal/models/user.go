package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// RegistrationID is the push-device token. Nil means no registered device;
	// the notification fan-out skips such users.
	RegistrationID *string `json:"-"`
	BadgeCount     int     `gorm:"not null;default:0" json:"badge_count"`

	Friends  []*User   `gorm:"many2many:user_friends" json:"-"`
	Groups   []*Group  `gorm:"many2many:group_members" json:"-"`
	Messages []Message `gorm:"foreignKey:UserID" json:"-"`
}

// UserRef is the minimized projection exposed to other members
// (message authors, member lists).
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (u *User) ToRef() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}

type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	BadgeCount int    `json:"badge_count"`
	HasDevice  bool   `json:"has_device"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		BadgeCount: u.BadgeCount,
		HasDevice:  u.RegistrationID != nil,
	}
}
