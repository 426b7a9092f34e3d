package slotrequests

import (
	"context"
	stdErrors "errors"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/internal/notifications"
	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/metrics"
)

// Approve assigns the first free slot to a pending request. The request and
// slot transitions commit together; the email is sent afterwards and its
// failure never undoes the allocation.
func (s *service) Approve(ctx context.Context, actor access.Actor, id uint) (*ApprovalResult, error) {
	if err := access.Require(actor, access.ApproveRequests); err != nil {
		return nil, err
	}

	started := s.now()
	var (
		result    ApprovalResult
		recipient *models.User
		vehicle   *models.Vehicle
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.SetLockTimeout(ctx, s.lockTimeout); err != nil {
			return storeErr(err, "set lock timeout")
		}

		req, err := repo.LockPending(ctx, id)
		if err != nil {
			return lookup(err, errRequestNotPending, "lock slot request")
		}
		if req.VehicleID == nil {
			return errVehicleNotFound()
		}
		if vehicle, err = repo.FindVehicle(ctx, *req.VehicleID); err != nil {
			return lookup(err, errVehicleNotFound, "load vehicle")
		}
		if recipient, err = repo.FindUser(ctx, req.UserID); err != nil {
			return lookup(err, errUserNotFound, "load user")
		}

		slot, err := repo.LockFirstFreeSlot(ctx)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return errNoFreeSlots()
			}
			return storeErr(err, "lock free slot")
		}

		approvedAt := s.now().UTC()
		affected, err := repo.MarkApproved(ctx, req.ID, slot.ID, slot.SlotNumber, approvedAt)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return errSlotAlreadyAssigned(err)
			}
			return storeErr(err, "approve slot request")
		}
		if affected != 1 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "slot request changed during approval")
		}
		affected, err = repo.MarkSlotUnavailable(ctx, slot.ID)
		if err != nil {
			return storeErr(err, "reserve slot")
		}
		if affected != 1 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "slot changed during approval")
		}

		slotNumber := slot.SlotNumber
		req.Status = enums.RequestStatusApproved
		req.SlotID = slot.ID
		req.SlotNumber = &slotNumber
		req.ApprovedAt = &approvedAt
		req.Vehicle = vehicle
		slot.Status = enums.SlotStatusUnavailable

		result.Request = *req
		result.Slot = *slot
		return nil
	})
	if err != nil {
		s.metrics.ObserveApproval(approvalOutcome(err), s.now().Sub(started))
		if s.logg != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			logCtx := s.logg.WithFields(ctx, map[string]any{"slot_request_id": id, "admin_id": actor.UserID})
			s.logg.Warn(logCtx, "slot_request.approve_failed: "+err.Error())
		}
		return nil, err
	}
	s.metrics.ObserveApproval(metrics.OutcomeApproved, s.now().Sub(started))

	result.EmailStatus = s.notifyApproval(ctx, recipient, vehicle, result.Slot)

	auditlog.Recordf(ctx, s.audit, actor.UserID, "Slot request %d approved by admin %d, slot %d, email %s",
		id, actor.UserID, result.Slot.SlotNumber, result.EmailStatus)
	return &result, nil
}

// notifyApproval runs after commit on a context that outlives the request.
func (s *service) notifyApproval(ctx context.Context, user *models.User, vehicle *models.Vehicle, slot models.ParkingSlot) enums.EmailStatus {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	err := s.notifier.SendApprovalEmail(sendCtx, notifications.ApprovalEmail{
		To:           user.Email,
		SlotNumber:   slot.SlotNumber,
		LicensePlate: vehicle.LicensePlate,
		Location:     slot.Location,
	})
	if err != nil {
		s.metrics.IncNotification(string(enums.EmailStatusFailed))
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"slot_number": slot.SlotNumber, "user_id": user.ID})
			s.logg.Error(logCtx, "slot_request.approval_email_failed", err)
		}
		return enums.EmailStatusFailed
	}
	s.metrics.IncNotification(string(enums.EmailStatusSent))
	return enums.EmailStatusSent
}
