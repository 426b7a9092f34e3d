package users

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	"github.com/BlessingGianna7/rest-pms-system/pkg/config"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
	"github.com/BlessingGianna7/rest-pms-system/pkg/security"
)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 6

type Service interface {
	Profile(ctx context.Context, actor access.Actor) (*UserDTO, error)
	UpdateProfile(ctx context.Context, actor access.Actor, input UpdateProfileInput) (*UserDTO, error)
	List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[UserDTO], error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	tx       txRunner
	audit    auditlog.Recorder
	password config.PasswordConfig
}

func NewService(repo *Repository, tx txRunner, audit auditlog.Recorder, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if audit == nil {
		audit = auditlog.Discard{}
	}
	return &service{repo: repo, tx: tx, audit: audit, password: password}, nil
}

func (s *service) Profile(ctx context.Context, actor access.Actor) (*UserDTO, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, actor access.Actor, input UpdateProfileInput) (*UserDTO, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		fields["name"] = name
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
		}
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != actor.UserID:
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		case err != nil && !stdErrors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		fields["email"] = email
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		fields["password_hash"] = hash
	}

	if _, err := s.repo.FindByID(ctx, actor.UserID); err != nil {
		return nil, notFoundOr(err, "load user")
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, actor.UserID, fields); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already in use")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
	}

	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "reload user")
	}
	s.audit.Record(ctx, actor.UserID, "Profile updated")
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[UserDTO], error) {
	if err := access.Require(actor, access.ManageUsers); err != nil {
		return nil, err
	}
	params = params.Normalize()

	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	s.audit.Record(ctx, actor.UserID, "Users list viewed")
	return &pagination.Page[UserDTO]{Data: FromModels(rows), Meta: pagination.NewMeta(total, params)}, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := access.Require(actor, access.ManageUsers); err != nil {
		return err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}

	auditlog.Recordf(ctx, s.audit, actor.UserID, "User %d deleted", id)
	return nil
}

func notFoundOr(err error, op string) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
