package slots

import (
	"context"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, slots []models.ParkingSlot) error
	FindByID(ctx context.Context, id uint) (*models.ParkingSlot, error)
	List(ctx context.Context, q listQuery) ([]models.ParkingSlot, int64, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type listQuery struct {
	pagination.Params
	// OnlyFree hides allocated slots from callers without ViewAllSlots.
	OnlyFree bool
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

func (r *repository) CreateBatch(ctx context.Context, slots []models.ParkingSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.ParkingSlot, error) {
	var slot models.ParkingSlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *repository) List(ctx context.Context, q listQuery) ([]models.ParkingSlot, int64, error) {
	filtered := func() *gorm.DB {
		tx := r.db.WithContext(ctx).
			Model(&models.ParkingSlot{}).
			Scopes(pagination.Search(q.Params, []string{"vehicle_type", "location", "slot_number"}, "id"))
		if q.OnlyFree {
			tx = tx.Where("status = ?", enums.SlotStatusFree)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ParkingSlot
	err := filtered().
		Order("id ASC").
		Scopes(pagination.Paginate(q.Params)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ParkingSlot{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.ParkingSlot{}, id)
	return res.RowsAffected, res.Error
}
