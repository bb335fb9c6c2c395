package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/api/responses"
	"github.com/newsroute/newsroute-backend/api/validators"
	"github.com/newsroute/newsroute-backend/internal/schedules"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type createScheduleBody struct {
	PersonnelID  uuid.UUID `json:"personnelId" validate:"required"`
	RouteID      uuid.UUID `json:"routeId" validate:"required"`
	ScheduleDate time.Time `json:"scheduleDate" validate:"required"`
	Notes        *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type markItemBody struct {
	Status     string  `json:"status" validate:"required"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	PhotoProof *string `json:"photoProof,omitempty" validate:"omitempty,max=2048"`
}

// CreateSchedule materializes a personnel's run sheet for one date.
func CreateSchedule(svc schedules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		var body createScheduleBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), schedules.CreateInput{
			Actor:        actor,
			PersonnelID:  body.PersonnelID,
			RouteID:      body.RouteID,
			ScheduleDate: body.ScheduleDate,
			Notes:        body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MarkDeliveryItem resolves one delivery item to a terminal status.
func MarkDeliveryItem(svc schedules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body markItemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseDeliveryItemStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery item status"))
			return
		}

		item, err := svc.MarkItem(r.Context(), schedules.MarkItemInput{
			Actor:      actor,
			ItemID:     itemID,
			Status:     status,
			Notes:      body.Notes,
			PhotoProof: body.PhotoProof,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}
