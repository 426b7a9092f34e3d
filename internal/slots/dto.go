package slots

import (
	"time"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
)

// SlotDTO is the transport shape of a parking slot.
type SlotDTO struct {
	ID          uint             `json:"id"`
	SlotNumber  int              `json:"slotNumber"`
	VehicleType string           `json:"vehicleType"`
	Location    *string          `json:"location"`
	Status      enums.SlotStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func FromModel(s *models.ParkingSlot) *SlotDTO {
	if s == nil {
		return nil
	}
	return &SlotDTO{
		ID:          s.ID,
		SlotNumber:  s.SlotNumber,
		VehicleType: s.VehicleType,
		Location:    s.Location,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func FromModels(rows []models.ParkingSlot) []SlotDTO {
	out := make([]SlotDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
