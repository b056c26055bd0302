package model

import (
	"time"

	"github.com/google/uuid"
)

// Supported certificate document types. Unknown types are rejected outright;
// there is no fallback template.
const (
	DocTypeClearance      = "Brgy Clearance"
	DocTypeBusinessPermit = "Brgy Business Permit"
	DocTypeIndigency      = "Brgy Indigency"
	DocTypeResidency      = "Brgy Residency"
)

// DocumentRequestStatus conventions (stored as free text, compared case-insensitively)
const (
	DocumentRequestPending  = "pending"
	DocumentRequestApproved = "approved"
	DocumentRequestDenied   = "denied"
)

// DocumentTypes lists every supported certificate type.
func DocumentTypes() []string {
	return []string{DocTypeClearance, DocTypeBusinessPermit, DocTypeIndigency, DocTypeResidency}
}

// IsDocumentType reports whether t is a supported certificate type.
func IsDocumentType(t string) bool {
	switch t {
	case DocTypeClearance, DocTypeBusinessPermit, DocTypeIndigency, DocTypeResidency:
		return true
	}
	return false
}

// DocumentRequest is a resident's request for a barangay certificate.
// pdf_path is set only after a successful generation, which requires the
// request to be approved.
type DocumentRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DocumentType string    `gorm:"type:varchar(100);not null" json:"document_type"`
	Fields       JSONMap   `gorm:"type:jsonb;not null;default:'{}'" json:"fields"`
	Status       string    `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	Attachment   string    `gorm:"type:varchar(500)" json:"attachment"`
	PdfPath      string    `gorm:"type:varchar(500)" json:"pdf_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
