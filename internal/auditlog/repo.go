package auditlog

import (
	"context"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

// Repository persists audit entries. There is no update or delete path.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, params pagination.Params) ([]models.AuditLog, int64, error)
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

func (r *repository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.AuditLog, int64, error) {
	filtered := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.AuditLog{}).
			Scopes(pagination.Search(params, []string{"action"}, "user_id"))
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLog
	err := filtered().
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(params)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
