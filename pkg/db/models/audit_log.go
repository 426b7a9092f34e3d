package models

import "time"

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    *uint     `gorm:"column:user_id;index"`
	Action    string    `gorm:"column:action;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName pins the table name used by migrations.
func (AuditLog) TableName() string {
	return "audit_logs"
}
