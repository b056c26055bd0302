package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement status constants
const (
	AnnouncementDraft  = "draft"
	AnnouncementPosted = "posted"
)

// Announcement is a barangay-wide notice. Only posted announcements are
// visible to non-admin callers.
type Announcement struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Status    string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	PostedAt  *time.Time     `json:"posted_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
