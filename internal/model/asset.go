package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetRequestStatus constants
const (
	AssetRequestPending  = "pending"
	AssetRequestApproved = "approved"
	AssetRequestDenied   = "denied"
)

// PaymentStatus constants
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Asset represents a rentable barangay asset (tents, chairs, sound system, ...)
type Asset struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	Stock     int             `gorm:"type:int;not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// AssetRequest is a resident's rental request for one or more assets.
// Status moves pending -> approved|denied; payment_status moves unpaid -> paid
// exactly once and only while approved.
type AssetRequest struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ResidentID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"resident_id"`
	Resident      *Resident          `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	Status        string             `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus string             `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	ReceiptNumber *string            `gorm:"type:varchar(30);uniqueIndex" json:"receipt_number"`
	AmountPaid    *decimal.Decimal   `gorm:"type:decimal(18,4)" json:"amount_paid"`
	PaidAt        *time.Time         `json:"paid_at"`
	AdminMessage  string             `gorm:"type:text" json:"admin_message"`
	Items         []AssetRequestItem `gorm:"foreignKey:AssetRequestID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AssetRequestItem is a line item within an AssetRequest
type AssetRequestItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetRequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_request_id"`
	AssetID        uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset          *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	RequestDate    time.Time `gorm:"type:date;not null" json:"request_date"`
	Quantity       int       `gorm:"type:int;not null" json:"quantity"`
}

// TotalAmount computes the request total from current asset prices. Evaluated
// fresh on every call; only amount_paid freezes a total, at payment time.
func (r AssetRequest) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		if item.Asset == nil {
			continue
		}
		total = total.Add(item.Asset.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
