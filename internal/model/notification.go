package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification type constants
const (
	NotifAssetRequest      = "asset_request"
	NotifAssetRequestAdmin = "asset_request_admin"
	NotifAssetPayment      = "asset_payment"
	NotifDocumentRequest   = "document_request"
	NotifProfileUpdated    = "profile_updated"
	NotifBlotterRequest    = "blotter_request"
)

// Notification is a persisted per-user message. Delivery over the websocket
// hub is best effort; the row is the source of truth.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type      string     `gorm:"type:varchar(50);not null;index" json:"type"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Data      JSONMap    `gorm:"type:jsonb;default:'{}'" json:"data"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
