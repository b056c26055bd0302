package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Beneficiary status constants
const (
	BeneficiaryPendingReview = "pending"
	BeneficiaryApproved      = "approved"
	BeneficiaryRejected      = "rejected"
)

// Beneficiary is a person enrolled in a social-assistance program.
type Beneficiary struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	BeneficiaryType string          `gorm:"type:varchar(100);not null;index" json:"beneficiary_type"`
	Status          string          `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	AssistanceType  string          `gorm:"type:varchar(100);not null;index" json:"assistance_type"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount"`
	ContactNumber   string          `gorm:"type:varchar(50)" json:"contact_number"`
	Email           string          `gorm:"type:varchar(255)" json:"email"`
	Address         string          `gorm:"type:text" json:"address"`
	ApplicationDate *time.Time      `gorm:"type:date" json:"application_date"`
	ApprovedDate    *time.Time      `gorm:"type:date" json:"approved_date"`
	Remarks         string          `gorm:"type:text" json:"remarks"`
	Attachment      string          `gorm:"type:varchar(500)" json:"attachment"`
	Disbursements   []Disbursement  `gorm:"foreignKey:BeneficiaryID" json:"disbursements,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Disbursement is a recorded payout to a beneficiary.
type Disbursement struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BeneficiaryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"beneficiary_id"`
	Beneficiary   *Beneficiary    `gorm:"foreignKey:BeneficiaryID" json:"beneficiary,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Method        string          `gorm:"type:varchar(50);not null" json:"method"` // cash, check, transfer
	ReferenceNo   string          `gorm:"type:varchar(100)" json:"reference_no"`
	DisbursedAt   time.Time       `gorm:"not null" json:"disbursed_at"`
	Remarks       string          `gorm:"type:text" json:"remarks"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
