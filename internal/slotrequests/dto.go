package slotrequests

import (
	"time"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
)

// RequestDTO is the transport shape of a slot request.
type RequestDTO struct {
	ID           uint                `json:"id"`
	UserID       uint                `json:"userId"`
	VehicleID    *uint               `json:"vehicleId"`
	SlotID       uint                `json:"slotId"`
	SlotNumber   *int                `json:"slotNumber"`
	Status       enums.RequestStatus `json:"status"`
	LicensePlate *string             `json:"licensePlate,omitempty"`
	VehicleType  *string             `json:"vehicleType,omitempty"`
	RequestedAt  time.Time           `json:"requestedAt"`
	ApprovedAt   *time.Time          `json:"approvedAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// SlotDTO is the slot bound by an approval.
type SlotDTO struct {
	ID          uint             `json:"id"`
	SlotNumber  int              `json:"slotNumber"`
	VehicleType string           `json:"vehicleType"`
	Location    *string          `json:"location"`
	Status      enums.SlotStatus `json:"status"`
}

func FromModel(r *models.SlotRequest) *RequestDTO {
	if r == nil {
		return nil
	}
	dto := &RequestDTO{
		ID:          r.ID,
		UserID:      r.UserID,
		VehicleID:   r.VehicleID,
		SlotID:      r.SlotID,
		SlotNumber:  r.SlotNumber,
		Status:      r.Status,
		RequestedAt: r.RequestedAt,
		ApprovedAt:  r.ApprovedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Vehicle != nil {
		plate, vType := r.Vehicle.LicensePlate, r.Vehicle.Type
		dto.LicensePlate = &plate
		dto.VehicleType = &vType
	}
	return dto
}

func FromModels(rows []models.SlotRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func SlotFromModel(s models.ParkingSlot) SlotDTO {
	return SlotDTO{
		ID:          s.ID,
		SlotNumber:  s.SlotNumber,
		VehicleType: s.VehicleType,
		Location:    s.Location,
		Status:      s.Status,
	}
}
