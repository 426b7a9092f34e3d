package controllers

import (
	"net/http"

	"github.com/BlessingGianna7/rest-pms-system/api/middleware"
	"github.com/BlessingGianna7/rest-pms-system/api/responses"
	"github.com/BlessingGianna7/rest-pms-system/api/validators"
	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

func AuditLogList(svc auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit log service unavailable"))
			return
		}
		params, err := validators.ParseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, pagination.Page[auditlog.EntryDTO]{Data: auditlog.FromModels(page.Data), Meta: page.Meta})
	}
}
