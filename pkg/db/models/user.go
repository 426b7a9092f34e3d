package models

import (
	"time"

	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uint       `gorm:"primaryKey"`
	Name         string     `gorm:"type:text;not null"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         enums.Role `gorm:"type:text;not null;default:user"`
	IsVerified   bool       `gorm:"column:is_verified;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
