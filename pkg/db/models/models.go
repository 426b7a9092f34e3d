package models

// All lists every persisted model, used by sqlite auto-migration.
func All() []any {
	return []any{
		&User{},
		&Vehicle{},
		&ParkingSlot{},
		&SlotRequest{},
		&OneTimePasscode{},
		&AuditLog{},
	}
}
