package models

import (
	"time"

	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
)

// SlotRequest is a user's application for a parking slot. SlotID starts as
// the slot applied for and is overwritten with the slot assigned on approval.
type SlotRequest struct {
	ID          uint                `gorm:"primaryKey"`
	UserID      uint                `gorm:"column:user_id;not null;index"`
	VehicleID   *uint               `gorm:"column:vehicle_id;index"`
	SlotID      uint                `gorm:"column:slot_id;not null;uniqueIndex:idx_slot_requests_approved_slot,where:status = 'approved'"`
	SlotNumber  *int                `gorm:"column:slot_number"`
	Status      enums.RequestStatus `gorm:"column:status;type:text;not null;default:pending;index"`
	RequestedAt time.Time           `gorm:"column:requested_at;autoCreateTime"`
	ApprovedAt  *time.Time          `gorm:"column:approved_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID"`
}
