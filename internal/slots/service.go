package slots

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

// MaxBulkSlots caps a single bulk create.
const MaxBulkSlots = 100

type Service interface {
	BulkCreate(ctx context.Context, actor access.Actor, inputs []CreateInput) ([]models.ParkingSlot, error)
	List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[models.ParkingSlot], error)
	Update(ctx context.Context, actor access.Actor, id uint, input UpdateInput) (*models.ParkingSlot, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type CreateInput struct {
	SlotNumber  int
	VehicleType string
	Location    *string
}

// UpdateInput applies only the fields that are set. Status is owned by the
// allocation workflow and cannot be edited here.
type UpdateInput struct {
	SlotNumber  *int
	VehicleType *string
	Location    *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo  Repository
	tx    txRunner
	audit auditlog.Recorder
}

func NewService(repo Repository, tx txRunner, audit auditlog.Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "slot repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if audit == nil {
		audit = auditlog.Discard{}
	}
	return &service{repo: repo, tx: tx, audit: audit}, nil
}

// BulkCreate inserts every slot as free, or none of them.
func (s *service) BulkCreate(ctx context.Context, actor access.Actor, inputs []CreateInput) ([]models.ParkingSlot, error) {
	if err := access.Require(actor, access.ManageSlots); err != nil {
		return nil, err
	}
	if len(inputs) == 0 || len(inputs) > MaxBulkSlots {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("between 1 and %d slots are required", MaxBulkSlots))
	}

	var (
		invalid error
		seen    = make(map[int]struct{}, len(inputs))
		rows    = make([]models.ParkingSlot, 0, len(inputs))
	)
	for i, in := range inputs {
		vehicleType := strings.TrimSpace(in.VehicleType)
		if in.SlotNumber <= 0 {
			invalid = multierr.Append(invalid, fmt.Errorf("slots[%d]: slot_number must be positive", i))
		}
		if vehicleType == "" {
			invalid = multierr.Append(invalid, fmt.Errorf("slots[%d]: vehicle_type is required", i))
		}
		if _, dup := seen[in.SlotNumber]; dup && in.SlotNumber > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slot number already exists").
				WithDetails(map[string]any{"slot_number": in.SlotNumber})
		}
		seen[in.SlotNumber] = struct{}{}
		rows = append(rows, models.ParkingSlot{
			SlotNumber:  in.SlotNumber,
			VehicleType: vehicleType,
			Location:    trimmedOrNil(in.Location),
			Status:      enums.SlotStatusFree,
		})
	}
	if invalid != nil {
		problems := make([]string, 0)
		for _, e := range multierr.Errors(invalid) {
			problems = append(problems, e.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid slot data").
			WithDetails(map[string]any{"errors": problems})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateBatch(ctx, rows)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slot number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create slots")
	}

	auditlog.Recordf(ctx, s.audit, actor.UserID, "Bulk created %d slots", len(rows))
	return rows, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[models.ParkingSlot], error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	q := listQuery{Params: params.Normalize(), OnlyFree: !actor.Can(access.ViewAllSlots)}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list slots")
	}
	if rows == nil {
		rows = []models.ParkingSlot{}
	}

	s.audit.Record(ctx, actor.UserID, "Slots list viewed")
	return &pagination.Page[models.ParkingSlot]{Data: rows, Meta: pagination.NewMeta(total, q.Params)}, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uint, input UpdateInput) (*models.ParkingSlot, error) {
	if err := access.Require(actor, access.ManageSlots); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.SlotNumber != nil {
		if *input.SlotNumber <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot number must be positive")
		}
		fields["slot_number"] = *input.SlotNumber
	}
	if input.VehicleType != nil {
		vt := strings.TrimSpace(*input.VehicleType)
		if vt == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle type is required")
		}
		fields["vehicle_type"] = vt
	}
	if input.Location != nil {
		fields["location"] = trimmedOrNil(input.Location)
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "load slot")
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slot number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update slot")
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "reload slot")
	}
	auditlog.Recordf(ctx, s.audit, actor.UserID, "Slot %d updated", slot.SlotNumber)
	return slot, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := access.Require(actor, access.ManageSlots); err != nil {
		return err
	}
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "load slot")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete slot")
	}
	auditlog.Recordf(ctx, s.audit, actor.UserID, "Slot %d deleted", slot.SlotNumber)
	return nil
}

func notFoundOr(err error, op string) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "slot not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
