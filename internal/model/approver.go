package model

import (
	"time"

	"github.com/google/uuid"
)

// ApproverType enum constants
const (
	ApproverTypeManager    = "MANAGER"
	ApproverTypeDirector   = "DIRECTOR"
	ApproverTypePurchasing = "PURCHASING"
)

// VirtualApproverLevel is the approval_level assigned to lazily created
// PURCHASING approver rows for admin/purchasing users. It only exists so
// their decisions can be logged against a first-class approver id; a
// request's current_approval_level never takes this value.
const VirtualApproverLevel = 999

// Approver states that a user may decide at a given level for a department.
// Several approvers sharing (department, level) form one quorum group.
type Approver struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_approver_user_dept_level" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DepartmentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_approver_user_dept_level;index" json:"department_id"`
	Department    *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	ApproverType  string    `gorm:"type:varchar(20);not null" json:"approver_type"`
	ApprovalLevel int       `gorm:"not null;uniqueIndex:idx_approver_user_dept_level" json:"approval_level"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ApprovalLogs []ApprovalLog `gorm:"foreignKey:ApproverID" json:"approval_logs,omitempty"`
}

// ValidApproverType reports whether t is a known approver type.
func ValidApproverType(t string) bool {
	switch t {
	case ApproverTypeManager, ApproverTypeDirector, ApproverTypePurchasing:
		return true
	}
	return false
}
