package slotrequests

import (
	stdErrors "errors"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/metrics"
)

func errRequestNotPending() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "request not found or already processed")
}

func errRequestNotEditable() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "request not found or not editable")
}

func errRequestNotDeletable() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "request not found or not deletable")
}

func errVehicleNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
}

func errUserNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

func errSlotUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "slot not found or unavailable")
}

// errSlotAlreadyAssigned is raised when a free slot still backs an approved
// request.
func errSlotAlreadyAssigned(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "slot is already assigned to an approved request")
}

func errNoFreeSlots() error {
	return pkgerrors.New(pkgerrors.CodeResourceExhausted, "no free slots available")
}

// lookup maps a missing row to notFound and anything else to a dependency
// failure.
func lookup(err error, notFound func() error, op string) error {
	if err == nil {
		return nil
	}
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return notFound()
	}
	return storeErr(err, op)
}

func storeErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsLockTimeout(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "slot allocation is busy, retry")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

// approvalOutcome labels a failed approval for metrics.
func approvalOutcome(err error) string {
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeResourceExhausted):
		return metrics.OutcomeNoFreeSlot
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		return metrics.OutcomeNotPending
	case pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
		return metrics.OutcomeIntegrity
	default:
		return metrics.OutcomeInfraFailure
	}
}
