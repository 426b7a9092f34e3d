package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, ignoring case.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List pages through users, searching name and email.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.User, int64, error) {
	filtered := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.User{}).
			Scopes(pagination.Search(params, []string{"name", "email"}, "id"))
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.User
	err := filtered().
		Order("id ASC").
		Scopes(pagination.Paginate(params)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update writes the provided columns.
func (r *Repository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpsertAdmin creates the administrator or promotes an existing account.
func (r *Repository) UpsertAdmin(ctx context.Context, dto CreateUserDTO) (*models.User, bool, error) {
	existing, err := r.FindByEmail(ctx, dto.Email)
	if err == nil {
		err = r.Update(ctx, existing.ID, map[string]any{
			"role":          dto.Role,
			"is_verified":   true,
			"password_hash": dto.PasswordHash,
		})
		if err != nil {
			return nil, false, err
		}
		updated, err := r.FindByID(ctx, existing.ID)
		return updated, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	created, err := r.Create(ctx, dto)
	return created, true, err
}

// Delete removes the user's one-time passcodes and then the user.
func (r *Repository) Delete(ctx context.Context, id uint) (int64, error) {
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.OneTimePasscode{}).Error; err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	return res.RowsAffected, res.Error
}
