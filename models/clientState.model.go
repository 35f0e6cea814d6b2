package models

import (
	"time"

	"gorm.io/gorm"
)

// Client state keys
const (
	StateNotificationsLastViewed = "notificationsLastViewed"
)

// ClientState is a small per-user key/value entry.
type ClientState struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex:idx_client_state_user_key;not null" json:"user_id"`
	Key    string `gorm:"column:state_key;uniqueIndex:idx_client_state_user_key;size:64;not null" json:"key"`
	Value  string `gorm:"type:text" json:"value"`
}

// CertificateNotice records that the "certificate available" notice was shown
// for a course. A row is inserted at most once per (user, course).
type CertificateNotice struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `gorm:"uniqueIndex:idx_certificate_notice_user_course;not null" json:"user_id"`
	CourseID uint      `gorm:"uniqueIndex:idx_certificate_notice_user_course;not null" json:"course_id"`
	ShownAt  time.Time `json:"shown_at"`
}
