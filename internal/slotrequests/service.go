package slotrequests

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/internal/notifications"
	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/metrics"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

const defaultNotifyTimeout = 10 * time.Second

// Service drives the slot request lifecycle: pending requests are created and
// edited by their owner, then approved or denied by an admin exactly once.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.SlotRequest, error)
	Update(ctx context.Context, actor access.Actor, id uint, input UpdateInput) (*models.SlotRequest, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
	List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[models.SlotRequest], error)
	Approve(ctx context.Context, actor access.Actor, id uint) (*ApprovalResult, error)
	Reject(ctx context.Context, actor access.Actor, id uint, reason string) (*models.SlotRequest, error)
}

type CreateInput struct {
	VehicleID *uint
	SlotID    uint
}

type UpdateInput struct {
	VehicleID uint
}

// ApprovalResult is the committed allocation plus the notification outcome.
type ApprovalResult struct {
	Request     models.SlotRequest
	Slot        models.ParkingSlot
	EmailStatus enums.EmailStatus
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Options carries the collaborators of the service. Repo, Tx and Notifier are
// required.
type Options struct {
	Repo          Repository
	Tx            txRunner
	Notifier      notifications.Gateway
	Audit         auditlog.Recorder
	Metrics       *metrics.AllocationMetrics
	Logger        *logger.Logger
	LockTimeout   time.Duration
	NotifyTimeout time.Duration
	Clock         func() time.Time
}

type service struct {
	repo          Repository
	tx            txRunner
	notifier      notifications.Gateway
	audit         auditlog.Recorder
	metrics       *metrics.AllocationMetrics
	logg          *logger.Logger
	lockTimeout   time.Duration
	notifyTimeout time.Duration
	now           func() time.Time
}

func NewService(opts Options) (Service, error) {
	if opts.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "slot request repository required")
	}
	if opts.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if opts.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification gateway required")
	}
	if opts.Audit == nil {
		opts.Audit = auditlog.Discard{}
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &service{
		repo:          opts.Repo,
		tx:            opts.Tx,
		notifier:      opts.Notifier,
		audit:         opts.Audit,
		metrics:       opts.Metrics,
		logg:          opts.Logger,
		lockTimeout:   opts.LockTimeout,
		notifyTimeout: opts.NotifyTimeout,
		now:           opts.Clock,
	}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.SlotRequest, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if input.SlotID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot id is required")
	}

	var vehicle *models.Vehicle
	plate := "N/A"
	if input.VehicleID != nil {
		v, err := s.repo.FindOwnedVehicle(ctx, *input.VehicleID, actor.UserID)
		if err != nil {
			return nil, lookup(err, errVehicleNotFound, "load vehicle")
		}
		vehicle = v
		plate = v.LicensePlate
	}

	slot, err := s.repo.FindFreeSlot(ctx, input.SlotID)
	if err != nil {
		return nil, lookup(err, errSlotUnavailable, "load slot")
	}

	req := &models.SlotRequest{
		UserID:    actor.UserID,
		VehicleID: input.VehicleID,
		SlotID:    slot.ID,
		Status:    enums.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, storeErr(err, "create slot request")
	}
	req.Vehicle = vehicle

	auditlog.Recordf(ctx, s.audit, actor.UserID, "Slot request created for vehicle %s and slot %d", plate, slot.SlotNumber)
	return req, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uint, input UpdateInput) (*models.SlotRequest, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if input.VehicleID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}

	if _, err := s.repo.FindOwnedVehicle(ctx, input.VehicleID, actor.UserID); err != nil {
		return nil, lookup(err, errVehicleNotFound, "load vehicle")
	}

	affected, err := s.repo.UpdatePendingVehicle(ctx, id, actor.UserID, input.VehicleID)
	if err != nil {
		return nil, storeErr(err, "update slot request")
	}
	if affected == 0 {
		return nil, errRequestNotEditable()
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, errRequestNotEditable, "reload slot request")
	}

	auditlog.Recordf(ctx, s.audit, actor.UserID, "Slot request %d updated", id)
	return req, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := access.RequireAuthenticated(actor); err != nil {
		return err
	}
	affected, err := s.repo.DeletePending(ctx, id, actor.UserID)
	if err != nil {
		return storeErr(err, "delete slot request")
	}
	if affected == 0 {
		return errRequestNotDeletable()
	}

	auditlog.Recordf(ctx, s.audit, actor.UserID, "Slot request %d deleted", id)
	return nil
}

func (s *service) List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[models.SlotRequest], error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	q := listQuery{Params: params.Normalize()}
	if !actor.Can(access.ViewAllRequests) {
		userID := actor.UserID
		q.UserID = &userID
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, storeErr(err, "list slot requests")
	}
	if rows == nil {
		rows = []models.SlotRequest{}
	}

	s.audit.Record(ctx, actor.UserID, "Slot requests list viewed")
	return &pagination.Page[models.SlotRequest]{Data: rows, Meta: pagination.NewMeta(total, q.Params)}, nil
}

func (s *service) Reject(ctx context.Context, actor access.Actor, id uint, reason string) (*models.SlotRequest, error) {
	if err := access.Require(actor, access.RejectRequests); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}

	req, err := s.repo.FindPending(ctx, id)
	if err != nil {
		return nil, lookup(err, errRequestNotPending, "load slot request")
	}

	// A concurrent approval may have won between the read and the write.
	affected, err := s.repo.MarkDenied(ctx, id)
	if err != nil {
		return nil, storeErr(err, "deny slot request")
	}
	if affected == 0 {
		return nil, errRequestNotPending()
	}
	req.Status = enums.RequestStatusDenied

	s.metrics.IncRejection()
	auditlog.Recordf(ctx, s.audit, actor.UserID, "Slot request %d denied by admin %d: %s", id, actor.UserID, reason)
	return req, nil
}
