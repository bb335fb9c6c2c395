package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/api/responses"
	"github.com/newsroute/newsroute-backend/api/validators"
	"github.com/newsroute/newsroute-backend/internal/payments"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type applyPaymentBody struct {
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Method    string          `json:"method" validate:"required"`
	Reference *string         `json:"reference,omitempty" validate:"omitempty,max=255"`
}

// ApplyPayment records a payment against a bill and reconciles the balance.
func ApplyPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		billID, err := parseUUIDParam(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body applyPaymentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(body.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Apply(r.Context(), payments.ApplyInput{
			Actor:     actor,
			BillID:    billID,
			Amount:    body.Amount,
			Method:    method,
			Reference: body.Reference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
