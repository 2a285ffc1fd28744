package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is one mutation submitted from an admin screen
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID    string    `gorm:"type:varchar(64);index" json:"session_id"`
	TenantID     string    `gorm:"type:varchar(64);not null;index" json:"tenant_id"`
	UserID       string    `gorm:"type:varchar(64);index" json:"user_id"`
	UserEmail    string    `gorm:"type:varchar(255)" json:"user_email"`
	Screen       string    `gorm:"type:varchar(50);not null;index" json:"screen"`
	Action       string    `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityID     string    `gorm:"type:varchar(255);index" json:"entity_id"`
	Status       string    `gorm:"type:varchar(20);index" json:"status"` // success, failure
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	Duration     int64     `json:"duration_ms"` // milliseconds
	CreatedAt    time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate hook
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
