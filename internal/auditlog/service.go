package auditlog

import (
	"context"

	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

// Service exposes the admin audit log listing.
type Service interface {
	List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[models.AuditLog], error)
}

type service struct {
	repo     Repository
	recorder Recorder
}

func NewService(repo Repository, recorder Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit log repository required")
	}
	if recorder == nil {
		recorder = Discard{}
	}
	return &service{repo: repo, recorder: recorder}, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, params pagination.Params) (*pagination.Page[models.AuditLog], error) {
	if err := access.Require(actor, access.ViewAuditLogs); err != nil {
		return nil, err
	}
	params = params.Normalize()

	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit logs")
	}

	s.recorder.Record(ctx, actor.UserID, "Logs list viewed")
	return &pagination.Page[models.AuditLog]{Data: rows, Meta: pagination.NewMeta(total, params)}, nil
}
