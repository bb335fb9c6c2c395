package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/api/responses"
	"github.com/newsroute/newsroute-backend/api/validators"
	"github.com/newsroute/newsroute-backend/internal/reminders"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type reminderRunBody struct {
	AreaIDs []uuid.UUID `json:"areaIds,omitempty"`
}

// RunReminders sweeps overdue bills and raises throttled payment reminders.
func RunReminders(svc reminders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		var body reminderRunBody
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Send(r.Context(), reminders.SendInput{
			Actor:   actor,
			AreaIDs: body.AreaIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"reminderCount":   result.ReminderCount,
			"skippedCooldown": result.SkippedCooldown,
			"emailCount":      result.EmailCount,
			"printCount":      result.PrintCount,
		})
	}
}
