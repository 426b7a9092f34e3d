package slotrequests

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

// Repository is the persistence surface of the allocation engine. Every
// method runs on the handle it was bound to with WithTx.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, req *models.SlotRequest) error
	FindByID(ctx context.Context, id uint) (*models.SlotRequest, error)
	FindPending(ctx context.Context, id uint) (*models.SlotRequest, error)
	List(ctx context.Context, q listQuery) ([]models.SlotRequest, int64, error)
	UpdatePendingVehicle(ctx context.Context, id, userID, vehicleID uint) (int64, error)
	DeletePending(ctx context.Context, id, userID uint) (int64, error)
	MarkDenied(ctx context.Context, id uint) (int64, error)

	FindOwnedVehicle(ctx context.Context, vehicleID, ownerID uint) (*models.Vehicle, error)
	FindFreeSlot(ctx context.Context, slotID uint) (*models.ParkingSlot, error)

	// Approval transaction steps, in lock order.
	SetLockTimeout(ctx context.Context, d time.Duration) error
	LockPending(ctx context.Context, id uint) (*models.SlotRequest, error)
	FindVehicle(ctx context.Context, id uint) (*models.Vehicle, error)
	FindUser(ctx context.Context, id uint) (*models.User, error)
	LockFirstFreeSlot(ctx context.Context) (*models.ParkingSlot, error)
	MarkApproved(ctx context.Context, id, slotID uint, slotNumber int, at time.Time) (int64, error)
	MarkSlotUnavailable(ctx context.Context, slotID uint) (int64, error)
}

type listQuery struct {
	pagination.Params
	// UserID scopes the list to one requester when set.
	UserID *uint
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, req *models.SlotRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.SlotRequest, error) {
	var req models.SlotRequest
	if err := r.db.WithContext(ctx).Preload("Vehicle").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindPending(ctx context.Context, id uint) (*models.SlotRequest, error) {
	var req models.SlotRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) List(ctx context.Context, q listQuery) ([]models.SlotRequest, int64, error) {
	filtered := func() *gorm.DB {
		tx := r.db.WithContext(ctx).
			Model(&models.SlotRequest{}).
			Joins("LEFT JOIN vehicles ON vehicles.id = slot_requests.vehicle_id").
			Scopes(pagination.Search(q.Params,
				[]string{"slot_requests.status", "vehicles.license_plate"},
				"slot_requests.id"))
		if q.UserID != nil {
			tx = tx.Where("slot_requests.user_id = ?", *q.UserID)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SlotRequest
	err := filtered().
		Preload("Vehicle").
		Order("slot_requests.id ASC").
		Scopes(pagination.Paginate(q.Params)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) UpdatePendingVehicle(ctx context.Context, id, userID, vehicleID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SlotRequest{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, enums.RequestStatusPending).
		Updates(map[string]any{"vehicle_id": vehicleID, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *repository) DeletePending(ctx context.Context, id, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, enums.RequestStatusPending).
		Delete(&models.SlotRequest{})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkDenied(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SlotRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{"status": enums.RequestStatusDenied, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *repository) FindOwnedVehicle(ctx context.Context, vehicleID, ownerID uint) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", vehicleID, ownerID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) FindFreeSlot(ctx context.Context, slotID uint) (*models.ParkingSlot, error) {
	var slot models.ParkingSlot
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", slotID, enums.SlotStatusFree).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// SetLockTimeout bounds row-lock waits for the rest of the transaction.
// Only Postgres supports it; other dialects serialize writers anyway.
func (r *repository) SetLockTimeout(ctx context.Context, d time.Duration) error {
	if d <= 0 || r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).Exec(fmt.Sprintf("SET LOCAL lock_timeout = %d", d.Milliseconds())).Error
}

// LockPending loads the request with an exclusive row lock, provided it is
// still pending. A concurrent approver blocks here and then sees no row.
func (r *repository) LockPending(ctx context.Context, id uint) (*models.SlotRequest, error) {
	var req models.SlotRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// LockFirstFreeSlot picks any free slot under an exclusive lock. Waiters
// re-evaluate status after the holder commits, so a slot flipped by another
// approval is never returned.
func (r *repository) LockFirstFreeSlot(ctx context.Context) (*models.ParkingSlot, error) {
	var slot models.ParkingSlot
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ?", enums.SlotStatusFree).
		Order("id ASC").
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *repository) MarkApproved(ctx context.Context, id, slotID uint, slotNumber int, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SlotRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":      enums.RequestStatusApproved,
			"slot_id":     slotID,
			"slot_number": slotNumber,
			"approved_at": at,
			"updated_at":  at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkSlotUnavailable(ctx context.Context, slotID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ParkingSlot{}).
		Where("id = ? AND status = ?", slotID, enums.SlotStatusFree).
		Updates(map[string]any{"status": enums.SlotStatusUnavailable, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
