package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/internal/notifications"
	"github.com/BlessingGianna7/rest-pms-system/internal/users"
	"github.com/BlessingGianna7/rest-pms-system/pkg/config"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/security"
)

const invalidOTPMessage = "invalid or expired OTP"

// RegisterService handles account creation and email verification.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	ResendOTP(ctx context.Context, req ResendOTPRequest) error
}

type txRunner interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	Notifier       notifications.Gateway
	Audit          auditlog.Recorder
	Logger         *logger.Logger
	PasswordConfig config.PasswordConfig
	OTPConfig      config.OTPConfig
	Clock          func() time.Time
}

type registerService struct {
	db          txRunner
	notifier    notifications.Gateway
	audit       auditlog.Recorder
	logg        *logger.Logger
	passwordCfg config.PasswordConfig
	otpCfg      config.OTPConfig
	now         func() time.Time
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notification gateway required")
	}
	if params.Audit == nil {
		params.Audit = auditlog.Discard{}
	}
	if params.OTPConfig.Length <= 0 {
		params.OTPConfig.Length = 6
	}
	if params.OTPConfig.TTL <= 0 {
		params.OTPConfig.TTL = 5 * time.Minute
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &registerService{
		db:          params.DB,
		notifier:    params.Notifier,
		audit:       params.Audit,
		logg:        params.Logger,
		passwordCfg: params.PasswordConfig,
		otpCfg:      params.OTPConfig,
		now:         params.Clock,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := users.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	if len(req.Password) < users.MinPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var (
		user *models.User
		code string
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         enums.RoleUser,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		user = created

		code, err = s.issueOTP(ctx, newOTPRepository(tx), user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.sendOTP(ctx, user, code)
	s.audit.Record(ctx, user.ID, "User registered")
	return &RegisterResponse{
		Message: "User registered. Check your email for the verification code.",
		UserID:  user.ID,
	}, nil
}

func (s *registerService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	code := strings.TrimSpace(req.OTPCode)
	if req.UserID == 0 || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		otps := newOTPRepository(tx)
		otp, err := otps.FindActive(ctx, req.UserID, s.now().UTC())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load otp")
		}
		if !security.ConstantTimeEqual(otp.Code, code) {
			return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
		}
		affected, err := otps.MarkVerified(ctx, otp.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark otp verified")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
		}
		if err := users.NewRepository(tx).Update(ctx, req.UserID, map[string]any{"is_verified": true}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark user verified")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, req.UserID, "User verified OTP")
	return nil
}

func (s *registerService) ResendOTP(ctx context.Context, req ResendOTPRequest) error {
	user, err := users.NewRepository(s.db.DB()).FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.IsVerified {
		return pkgerrors.New(pkgerrors.CodeValidation, "account already verified")
	}

	var code string
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		otps := newOTPRepository(tx)
		if err := otps.DeleteForUser(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete otps")
		}
		code, err = s.issueOTP(ctx, otps, user.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.sendOTP(ctx, user, code)
	s.audit.Record(ctx, user.ID, "OTP resent")
	return nil
}

func (s *registerService) issueOTP(ctx context.Context, otps *otpRepository, userID uint) (string, error) {
	code, err := security.GenerateOTP(s.otpCfg.Length)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	otp := &models.OneTimePasscode{
		UserID:    userID,
		Code:      code,
		ExpiresAt: s.now().UTC().Add(s.otpCfg.TTL),
	}
	if err := otps.Create(ctx, otp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	return code, nil
}

// sendOTP is best-effort; the user can always request another code.
func (s *registerService) sendOTP(ctx context.Context, user *models.User, code string) {
	err := s.notifier.SendOTPEmail(context.WithoutCancel(ctx), notifications.OTPEmail{
		To:   user.Email,
		Name: user.Name,
		Code: code,
	})
	if err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "user_id", user.ID)
		s.logg.Error(logCtx, "auth.otp_email_failed", err)
	}
}
