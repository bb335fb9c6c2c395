package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/api/responses"
	"github.com/newsroute/newsroute-backend/api/validators"
	"github.com/newsroute/newsroute-backend/internal/changerequests"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
	"github.com/newsroute/newsroute-backend/pkg/logger"
)

type submitChangeRequestBody struct {
	RequestType         string     `json:"requestType" validate:"required"`
	PublicationID       *uuid.UUID `json:"publicationId,omitempty"`
	SubscriptionID      *uuid.UUID `json:"subscriptionId,omitempty"`
	EffectiveDate       time.Time  `json:"effectiveDate" validate:"required"`
	NewQuantity         *int       `json:"newQuantity,omitempty"`
	NewAddressID        *uuid.UUID `json:"newAddressId,omitempty"`
	DeliveryPreferences *string    `json:"deliveryPreferences,omitempty" validate:"omitempty,max=500"`
	Comments            *string    `json:"comments,omitempty" validate:"omitempty,max=1000"`
}

type decideChangeRequestBody struct {
	Decision string  `json:"decision" validate:"required,oneof=approve reject"`
	Comments *string `json:"comments,omitempty" validate:"omitempty,max=1000"`
}

// SubmitChangeRequest lets a customer propose a new, updated or cancelled
// subscription.
func SubmitChangeRequest(svc changerequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		if actor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}
		if actor.Role != enums.UserRoleCustomer {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only customers submit change requests"))
			return
		}

		var body submitChangeRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestType, err := enums.ParseChangeRequestType(body.RequestType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request type"))
			return
		}

		input := changerequests.SubmitInput{
			CustomerID:          actor.ID,
			RequestType:         requestType,
			SubscriptionID:      body.SubscriptionID,
			EffectiveDate:       body.EffectiveDate,
			NewQuantity:         body.NewQuantity,
			NewAddressID:        body.NewAddressID,
			DeliveryPreferences: body.DeliveryPreferences,
			Comments:            body.Comments,
		}
		if body.PublicationID != nil {
			input.PublicationID = *body.PublicationID
		}

		request, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// DecideChangeRequest records a manager's verdict on a pending request.
func DecideChangeRequest(svc changerequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())

		requestID, err := parseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body decideChangeRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Decide(r.Context(), changerequests.DecideInput{
			Actor:     actor,
			RequestID: requestID,
			Decision:  changerequests.Decision(body.Decision),
			Comments:  body.Comments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter is required").
			WithDetails(map[string]any{"field": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
