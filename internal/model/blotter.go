package model

import (
	"time"

	"github.com/google/uuid"
)

// BlotterRequestStatus constants
const (
	BlotterPending   = "pending"
	BlotterRecorded  = "recorded"
	BlotterResolved  = "resolved"
	BlotterDismissed = "dismissed"
)

// BlotterRequest is an incident/complaint report filed by a resident.
type BlotterRequest struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IncidentType    string    `gorm:"type:varchar(100);not null" json:"incident_type"`
	ComplainantName string    `gorm:"type:varchar(255);not null" json:"complainant_name"`
	RespondentName  string    `gorm:"type:varchar(255)" json:"respondent_name"`
	IncidentDate    time.Time `gorm:"type:date;not null" json:"incident_date"`
	Location        string    `gorm:"type:varchar(255);not null" json:"location"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminRemarks    string    `gorm:"type:text" json:"admin_remarks"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
