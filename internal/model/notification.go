package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enum constants
const (
	NotificationPendingApproval = "PENDING_APPROVAL"
	NotificationStatusUpdate    = "STATUS_UPDATE"
)

// Notification logs an outbound WhatsApp message attempt for a user, so
// delivery state can be tracked and failed sends retried.
type Notification struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID        *uuid.UUID `gorm:"type:uuid;index" json:"request_id"`
	Request          *Request   `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Message          string     `gorm:"type:text;not null" json:"message"`
	NotificationType string     `gorm:"type:varchar(30);not null" json:"notification_type"`
	MessageSID       string     `gorm:"type:varchar(64);index" json:"message_sid"` // Provider message id, for status callbacks
	IsRead           bool       `gorm:"not null;default:false" json:"is_read"`
	IsSent           bool       `gorm:"not null;default:false" json:"is_sent"`
	SentAt           *time.Time `json:"sent_at"`
	ReadAt           *time.Time `json:"read_at"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
