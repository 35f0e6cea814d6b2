package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Session is the signed-in learner as registered by the web client.
// One row per user; re-registering replaces it.
type Session struct {
	gorm.Model
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Username     string         `gorm:"default:''" json:"username"`
	Email        string         `gorm:"default:''" json:"email"`
	ProfileImage string         `gorm:"default:''" json:"profile_image"`
	UserInfo     datatypes.JSON `json:"user_info"` // raw userInfo object as sent by the client
	LastSeenAt   time.Time      `json:"last_seen_at"`

	Token string `gorm:"-" json:"-"` // bearer token of the current request, never stored
}
