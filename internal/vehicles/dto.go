package vehicles

import "time"

// VehicleDTO is the transport shape of a vehicle. ApprovalStatus is
// "approved" once any approved request references the vehicle.
type VehicleDTO struct {
	ID             uint      `json:"id"`
	OwnerID        uint      `json:"userId"`
	LicensePlate   string    `json:"licensePlate"`
	Type           string    `json:"type"`
	ApprovalStatus *string   `json:"approvalStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func FromRow(r *Row) *VehicleDTO {
	if r == nil {
		return nil
	}
	return &VehicleDTO{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		LicensePlate:   r.LicensePlate,
		Type:           r.Type,
		ApprovalStatus: r.ApprovalStatus,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func FromRows(rows []Row) []VehicleDTO {
	out := make([]VehicleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromRow(&rows[i]))
	}
	return out
}
