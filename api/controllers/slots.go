package controllers

import (
	"net/http"

	"github.com/BlessingGianna7/rest-pms-system/api/middleware"
	"github.com/BlessingGianna7/rest-pms-system/api/responses"
	"github.com/BlessingGianna7/rest-pms-system/api/validators"
	"github.com/BlessingGianna7/rest-pms-system/internal/slots"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pagination"
)

type slotPayload struct {
	SlotNumber  int     `json:"slotNumber" validate:"gt=0"`
	VehicleType string  `json:"vehicleType" validate:"required,max=50"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
}

type bulkCreateSlotsRequest struct {
	Slots []slotPayload `json:"slots" validate:"required,min=1,max=100,dive"`
}

type updateSlotRequest struct {
	SlotNumber  *int    `json:"slotNumber" validate:"omitempty,gt=0"`
	VehicleType *string `json:"vehicleType" validate:"omitempty,min=1,max=50"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
}

func SlotBulkCreate(svc slots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot service unavailable"))
			return
		}

		var body bulkCreateSlotsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]slots.CreateInput, 0, len(body.Slots))
		for _, s := range body.Slots {
			inputs = append(inputs, slots.CreateInput{
				SlotNumber:  s.SlotNumber,
				VehicleType: s.VehicleType,
				Location:    s.Location,
			})
		}

		created, err := svc.BulkCreate(r.Context(), middleware.ActorFromContext(r.Context()), inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, slots.FromModels(created))
	}
}

func SlotList(svc slots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot service unavailable"))
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
		responses.WritePage(w, pagination.Page[slots.SlotDTO]{Data: slots.FromModels(page.Data), Meta: page.Meta})
	}
}

func SlotUpdate(svc slots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSlotRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := slots.UpdateInput{
			SlotNumber:  body.SlotNumber,
			VehicleType: body.VehicleType,
			Location:    body.Location,
		}

		slot, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slots.FromModel(slot))
	}
}

func SlotDelete(svc slots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slot service unavailable"))
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
		responses.WriteSuccess(w, messageBody{Message: "Slot deleted"})
	}
}
