package enums

import "fmt"

// SlotStatus maps to the slot_status enum in Postgres.
type SlotStatus string

const (
	SlotStatusFree        SlotStatus = "free"
	SlotStatusUnavailable SlotStatus = "unavailable"
)

var validSlotStatuses = []SlotStatus{SlotStatusFree, SlotStatusUnavailable}

// String implements fmt.Stringer.
func (s SlotStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical slot_status enum.
func (s SlotStatus) IsValid() bool {
	for _, candidate := range validSlotStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSlotStatus converts raw input into SlotStatus.
func ParseSlotStatus(value string) (SlotStatus, error) {
	for _, candidate := range validSlotStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid slot status %q", value)
}
