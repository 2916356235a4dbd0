package model

import (
	"time"

	"github.com/google/uuid"
)

// Department owns approvers and purchase requests. ApprovalLayers is a
// declared layer count kept for reference only; the actual chain is derived
// from Approver records at decision time.
type Department struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Code           string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	ApprovalLayers int       `json:"approval_layers"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Approvers []Approver `gorm:"foreignKey:DepartmentID" json:"approvers,omitempty"`
	Requests  []Request  `gorm:"foreignKey:DepartmentID" json:"requests,omitempty"`
}
