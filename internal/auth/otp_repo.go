package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
)

// otpRepository persists one-time passcodes.
type otpRepository struct {
	db *gorm.DB
}

func newOTPRepository(db *gorm.DB) *otpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *models.OneTimePasscode) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// FindActive returns the newest unexpired, unverified passcode for a user.
func (r *otpRepository) FindActive(ctx context.Context, userID uint, now time.Time) (*models.OneTimePasscode, error) {
	var otp models.OneTimePasscode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_verified = ? AND expires_at > ?", userID, false, now).
		Order("id DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OneTimePasscode{}).
		Where("id = ? AND is_verified = ?", id, false).
		Update("is_verified", true)
	return res.RowsAffected, res.Error
}

func (r *otpRepository) DeleteForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.OneTimePasscode{}).Error
}
