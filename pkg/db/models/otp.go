package models

import "time"

// OneTimePasscode verifies a user's email address once.
type OneTimePasscode struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"column:user_id;not null;index"`
	Code       string    `gorm:"column:otp_code;type:text;not null"`
	ExpiresAt  time.Time `gorm:"column:expires_at;not null"`
	IsVerified bool      `gorm:"column:is_verified;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the table name used by migrations.
func (OneTimePasscode) TableName() string {
	return "otps"
}
