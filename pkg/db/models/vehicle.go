package models

import "time"

// Vehicle is owned by exactly one user.
type Vehicle struct {
	ID           uint      `gorm:"primaryKey"`
	OwnerID      uint      `gorm:"column:owner_id;not null;index"`
	LicensePlate string    `gorm:"column:license_plate;type:text;not null;uniqueIndex"`
	Type         string    `gorm:"column:type;type:text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
