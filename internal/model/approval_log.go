package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus enum constants
const (
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// ApprovalLog records one approval or rejection decision. Rows are never
// mutated after creation; the composite unique index blocks a second
// APPROVED row for the same (request, approver) even under concurrent
// commits.
type ApprovalLog struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_log_request_approver_status;index" json:"request_id"`
	Request        *Request  `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	ApproverID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_log_request_approver_status" json:"approver_id"`
	Approver       *Approver `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	ApprovalStatus string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_log_request_approver_status" json:"approval_status"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
