package vehicles

import (
	"context"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

// Row is a vehicle plus its derived approval status: "approved" when any
// approved slot request references it, nil otherwise.
type Row struct {
	models.Vehicle
	ApprovalStatus *string `gorm:"column:approval_status"`
}

type Repository interface {
	Create(ctx context.Context, v *models.Vehicle) error
	Find(ctx context.Context, id uint, ownerID *uint) (*Row, error)
	List(ctx context.Context, q listQuery) ([]Row, int64, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type listQuery struct {
	pagination.Params
	OwnerID  *uint
	SearchID bool
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) withStatus(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Select(`vehicles.*, CASE WHEN EXISTS (
			SELECT 1 FROM slot_requests sr WHERE sr.vehicle_id = vehicles.id AND sr.status = ?
		) THEN ? END AS approval_status`, enums.RequestStatusApproved, string(enums.RequestStatusApproved))
}

func (r *repository) Create(ctx context.Context, v *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) Find(ctx context.Context, id uint, ownerID *uint) (*Row, error) {
	tx := r.withStatus(ctx).Where("vehicles.id = ?", id)
	if ownerID != nil {
		tx = tx.Where("vehicles.owner_id = ?", *ownerID)
	}
	var rows []Row
	if err := tx.Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *repository) List(ctx context.Context, q listQuery) ([]Row, int64, error) {
	idColumn := ""
	if q.SearchID {
		idColumn = "vehicles.id"
	}
	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Scopes(pagination.Search(q.Params, []string{"vehicles.license_plate", "vehicles.type"}, idColumn))
		if q.OwnerID != nil {
			tx = tx.Where("vehicles.owner_id = ?", *q.OwnerID)
		}
		return tx
	}

	var total int64
	if err := filter(r.db.WithContext(ctx).Model(&models.Vehicle{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Row
	err := filter(r.withStatus(ctx)).
		Order("vehicles.id ASC").
		Scopes(pagination.Paginate(q.Params)).
		Scan(&rows).Error
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
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Vehicle{}, id)
	return res.RowsAffected, res.Error
}
