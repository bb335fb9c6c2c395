package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/api/responses"
	"github.com/newsroute/newsroute-backend/api/validators"
	"github.com/newsroute/newsroute-backend/internal/commissions"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type commissionRunBody struct {
	Month   int         `json:"month" validate:"required,min=1,max=12"`
	Year    int         `json:"year" validate:"required,min=2000"`
	AreaIDs []uuid.UUID `json:"areaIds,omitempty"`
}

// RunCommissions computes the monthly payouts for active deliverers.
func RunCommissions(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		var body commissionRunBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Process(r.Context(), commissions.ProcessInput{
			Actor:   actor,
			Month:   body.Month,
			Year:    body.Year,
			AreaIDs: body.AreaIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"paymentCount":    result.PaymentCount,
			"skippedExisting": result.SkippedExisting,
			"skippedZero":     result.SkippedZero,
			"totalPaid":       result.TotalPaid,
		})
	}
}
