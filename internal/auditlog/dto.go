package auditlog

import (
	"time"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
)

// EntryDTO is the transport shape of an audit entry.
type EntryDTO struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"userId"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromModels(rows []models.AuditLog) []EntryDTO {
	out := make([]EntryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, EntryDTO{ID: r.ID, UserID: r.UserID, Action: r.Action, CreatedAt: r.CreatedAt})
	}
	return out
}
