package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/api/responses"
	"github.com/newsroute/newsroute-backend/api/validators"
	"github.com/newsroute/newsroute-backend/internal/billing"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
	"github.com/newsroute/newsroute-backend/pkg/logger"
	"github.com/newsroute/newsroute-backend/pkg/pagination"
)

type billingRunBody struct {
	Month   int         `json:"month" validate:"required,min=1,max=12"`
	Year    int         `json:"year" validate:"required,min=2000"`
	AreaIDs []uuid.UUID `json:"areaIds,omitempty"`
}

// RunBilling generates the monthly bills for the requested period.
func RunBilling(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		var body billingRunBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Generate(r.Context(), billing.GenerateInput{
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
			"billCount":   result.BillCount,
			"itemCount":   result.ItemCount,
			"totalBilled": result.TotalBilled,
			"billNumbers": result.BillNumbers,
		})
	}
}

// ListBills pages the caller's bills, newest first.
func ListBills(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.BillStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseBillStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bill status"))
				return
			}
			status = &parsed
		}

		result, err := svc.ListBills(r.Context(), billing.ListInput{
			Actor:  actor,
			Status: status,
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"bills":      result.Bills,
			"nextCursor": result.NextCursor,
		})
	}
}
