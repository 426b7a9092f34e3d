package vehicles

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*Row, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*Row, error)
	List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[Row], error)
	Update(ctx context.Context, actor access.Actor, id uint, input UpdateInput) (*Row, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type CreateInput struct {
	LicensePlate string
	Type         string
}

type UpdateInput struct {
	LicensePlate *string
	Type         *string
}

type service struct {
	repo  Repository
	audit auditlog.Recorder
}

func NewService(repo Repository, audit auditlog.Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "vehicle repository required")
	}
	if audit == nil {
		audit = auditlog.Discard{}
	}
	return &service{repo: repo, audit: audit}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Row, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	plate := strings.TrimSpace(input.LicensePlate)
	vehicleType := strings.TrimSpace(input.Type)
	if plate == "" || vehicleType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license plate and type are required")
	}

	v := &models.Vehicle{OwnerID: actor.UserID, LicensePlate: plate, Type: vehicleType}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, writeErr(err, "create vehicle")
	}

	auditlog.Recordf(ctx, s.audit, actor.UserID, "Vehicle %s created", plate)
	return &Row{Vehicle: *v}, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*Row, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	row, err := s.repo.Find(ctx, id, ownerScope(actor))
	if err != nil {
		return nil, readErr(err, "load vehicle")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[Row], error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	q := listQuery{
		Params:   params.Normalize(),
		OwnerID:  ownerScope(actor),
		SearchID: actor.Can(access.SearchVehiclesByID),
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	if rows == nil {
		rows = []Row{}
	}

	s.audit.Record(ctx, actor.UserID, "Vehicles list viewed")
	return &pagination.Page[Row]{Data: rows, Meta: pagination.NewMeta(total, q.Params)}, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uint, input UpdateInput) (*Row, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	scope := ownerScope(actor)
	if _, err := s.repo.Find(ctx, id, scope); err != nil {
		return nil, readErr(err, "load vehicle")
	}

	fields := map[string]any{}
	if input.LicensePlate != nil {
		plate := strings.TrimSpace(*input.LicensePlate)
		if plate == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "license plate is required")
		}
		fields["license_plate"] = plate
	}
	if input.Type != nil {
		vehicleType := strings.TrimSpace(*input.Type)
		if vehicleType == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "type is required")
		}
		fields["type"] = vehicleType
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, writeErr(err, "update vehicle")
	}

	row, err := s.repo.Find(ctx, id, scope)
	if err != nil {
		return nil, readErr(err, "reload vehicle")
	}
	auditlog.Recordf(ctx, s.audit, actor.UserID, "Vehicle %d updated", id)
	return row, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := access.RequireAuthenticated(actor); err != nil {
		return err
	}
	row, err := s.repo.Find(ctx, id, ownerScope(actor))
	if err != nil {
		return readErr(err, "load vehicle")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	auditlog.Recordf(ctx, s.audit, actor.UserID, "Vehicle %s deleted", row.LicensePlate)
	return nil
}

// ownerScope limits lookups to the caller's vehicles unless they may
// manage any vehicle.
func ownerScope(actor access.Actor) *uint {
	if actor.Can(access.ManageAnyVehicle) {
		return nil
	}
	id := actor.UserID
	return &id
}

func readErr(err error, op string) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func writeErr(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "license plate already registered")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
