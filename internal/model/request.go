package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus enum constants
const (
	StatusDraft                     = "DRAFT"
	StatusPendingManagerApproval    = "PENDING_MANAGER_APPROVAL"
	StatusManagerApproved           = "MANAGER_APPROVED"
	StatusPendingDirectorApproval   = "PENDING_DIRECTOR_APPROVAL"
	StatusDirectorApproved          = "DIRECTOR_APPROVED"
	StatusPendingPurchasingApproval = "PENDING_PURCHASING_APPROVAL"
	StatusPurchasingApproved        = "PURCHASING_APPROVED"
	StatusFullyApproved             = "FULLY_APPROVED"
	StatusRejected                  = "REJECTED"
	StatusInProcess                 = "IN_PROCESS"
	StatusCompleted                 = "COMPLETED"
	StatusCancelled                 = "CANCELLED"
	StatusOnHold                    = "ON_HOLD"
)

// UrgencyLevel enum constants
const (
	UrgencyLow    = "LOW"
	UrgencyMedium = "MEDIUM"
	UrgencyHigh   = "HIGH"
)

// ItemCategory enum constants
const (
	CategoryOfficeSupplies = "OFFICE_SUPPLIES"
	CategoryEquipment      = "EQUIPMENT"
	CategoryServices       = "SERVICES"
	CategoryMaintenance    = "MAINTENANCE"
	CategoryOther          = "OTHER"
)

// Request is a purchase request routed through its department's approval
// chain. Mutated only by the workflow orchestrator once it leaves DRAFT.
type Request struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User                 *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DepartmentID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"department_id"`
	Department           *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	RequestCode          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"request_code"` // REQ-YYYYMMDD-NNNN, sequence resets daily
	Description          string          `gorm:"type:text;not null" json:"description"`
	StatusNote           string          `gorm:"type:text" json:"status_note"`
	TotalAmount          decimal.Decimal `gorm:"type:numeric(15,2)" json:"total_amount"` // Sum of item totals
	CurrentApprovalLevel int             `gorm:"not null;default:1" json:"current_approval_level"`
	Status               string          `gorm:"type:varchar(40);not null;default:'DRAFT';index" json:"status"`
	UrgencyLevel         string          `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"urgency_level"`
	RequestDate          time.Time       `gorm:"not null" json:"request_date"`
	CreatedAt            time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	RequestItems  []RequestItem  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"request_items,omitempty"`
	ApprovalLogs  []ApprovalLog  `gorm:"foreignKey:RequestID" json:"approval_logs,omitempty"`
	Notifications []Notification `gorm:"foreignKey:RequestID" json:"notifications,omitempty"`
}

// RequestItem is one line of a purchase request. Immutable once the parent
// request leaves DRAFT.
type RequestItem struct {
	ID                    uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"request_id"`
	ItemName              string          `gorm:"type:varchar(200);not null" json:"item_name"`
	Quantity              int             `gorm:"not null" json:"quantity"`
	UnitPrice             decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"unit_price"`
	TotalPrice            decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total_price"`
	Specifications        string          `gorm:"type:text" json:"specifications"`
	Category              string          `gorm:"type:varchar(30);not null" json:"category"`
	RequestedDeliveryDate *time.Time      `gorm:"type:date" json:"requested_delivery_date"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
