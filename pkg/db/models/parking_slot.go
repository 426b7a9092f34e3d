package models

import (
	"time"

	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
)

// ParkingSlot is a single allocatable space. Status is the contended field.
type ParkingSlot struct {
	ID          uint             `gorm:"primaryKey"`
	SlotNumber  int              `gorm:"column:slot_number;not null;uniqueIndex"`
	VehicleType string           `gorm:"column:vehicle_type;type:text;not null"`
	Location    *string          `gorm:"column:location;type:text"`
	Status      enums.SlotStatus `gorm:"column:status;type:text;not null;default:free;index"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by migrations.
func (ParkingSlot) TableName() string {
	return "parking_slots"
}
