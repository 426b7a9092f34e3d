package controllers

import (
	"net/http"

	"github.com/BlessingGianna7/rest-pms-system/api/middleware"
	"github.com/BlessingGianna7/rest-pms-system/api/responses"
	"github.com/BlessingGianna7/rest-pms-system/api/validators"
	"github.com/BlessingGianna7/rest-pms-system/internal/slotrequests"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

type createSlotRequestBody struct {
	VehicleID *uint `json:"vehicleId" validate:"omitempty,gt=0"`
	SlotID    uint  `json:"slotId" validate:"required,gt=0"`
}

type updateSlotRequestBody struct {
	VehicleID uint `json:"vehicleId" validate:"required,gt=0"`
}

type rejectSlotRequestBody struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type approvalResponse struct {
	Message     string                   `json:"message"`
	Request     *slotrequests.RequestDTO `json:"request"`
	Slot        slotrequests.SlotDTO     `json:"slot"`
	EmailStatus enums.EmailStatus        `json:"emailStatus"`
}

type rejectionResponse struct {
	Message string                   `json:"message"`
	Request *slotrequests.RequestDTO `json:"request"`
}

func SlotRequestCreate(svc slotrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot request service unavailable"))
			return
		}

		var body createSlotRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), slotrequests.CreateInput{
			VehicleID: body.VehicleID,
			SlotID:    body.SlotID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, slotrequests.FromModel(req))
	}
}

func SlotRequestList(svc slotrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot request service unavailable"))
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
		responses.WritePage(w, pagination.Page[slotrequests.RequestDTO]{Data: slotrequests.FromModels(page.Data), Meta: page.Meta})
	}
}

func SlotRequestUpdate(svc slotrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot request service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSlotRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, slotrequests.UpdateInput{VehicleID: body.VehicleID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slotrequests.FromModel(req))
	}
}

func SlotRequestDelete(svc slotrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot request service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, messageBody{Message: "Request deleted"})
	}
}

// SlotRequestApprove allocates a slot. A failed approval email does not fail
// the request; it is reported through emailStatus.
func SlotRequestApprove(svc slotrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot request service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Approve(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approvalResponse{
			Message:     "Request approved",
			Request:     slotrequests.FromModel(&result.Request),
			Slot:        slotrequests.SlotFromModel(result.Slot),
			EmailStatus: result.EmailStatus,
		})
	}
}

func SlotRequestReject(svc slotrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot request service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectSlotRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := svc.Reject(r.Context(), middleware.ActorFromContext(r.Context()), id, body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rejectionResponse{
			Message: "Request rejected",
			Request: slotrequests.FromModel(req),
		})
	}
}
