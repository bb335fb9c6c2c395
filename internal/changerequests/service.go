package changerequests

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Decision is the terminal outcome a manager can give a pending request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// SubmitInput captures a customer's proposal.
type SubmitInput struct {
	CustomerID          uuid.UUID
	RequestType         enums.ChangeRequestType
	PublicationID       uuid.UUID
	SubscriptionID      *uuid.UUID
	EffectiveDate       time.Time
	NewQuantity         *int
	NewAddressID        *uuid.UUID
	DeliveryPreferences *string
	Comments            *string
}

// DecideInput carries a manager's verdict on a pending request.
type DecideInput struct {
	Actor     *identity.Actor
	RequestID uuid.UUID
	Decision  Decision
	Comments  *string
}

// Service defines the subscription change state machine.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.SubscriptionChangeRequest, error)
	Decide(ctx context.Context, input DecideInput) (*models.SubscriptionChangeRequest, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	guard identity.Service
}

// NewService builds a change request service with the required dependencies.
func NewService(repo Repository, tx txRunner, guard identity.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("change request repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if guard == nil {
		return nil, fmt.Errorf("identity guard required")
	}
	return &service{repo: repo, tx: tx, guard: guard}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.SubscriptionChangeRequest, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.RequestType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request type must be new, update or cancel")
	}
	if input.EffectiveDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "effective date required")
	}
	if input.NewQuantity != nil && *input.NewQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	switch input.RequestType {
	case enums.ChangeRequestTypeNew:
		return s.submitNew(ctx, input)
	default:
		return s.submitExisting(ctx, input)
	}
}

// submitNew creates the request together with its holding subscription so
// approval only has to flip the subscription active.
func (s *service) submitNew(ctx context.Context, input SubmitInput) (*models.SubscriptionChangeRequest, error) {
	if input.PublicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "publication id required")
	}

	publication, err := s.repo.FindPublication(ctx, input.PublicationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "publication not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load publication")
	}
	if !publication.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "publication is not available")
	}

	address, err := s.resolveAddress(ctx, s.repo, input.CustomerID, input.NewAddressID)
	if err != nil {
		return nil, err
	}

	quantity := 1
	if input.NewQuantity != nil {
		quantity = *input.NewQuantity
	}

	var request *models.SubscriptionChangeRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		subscription, err := repo.CreateSubscription(ctx, &models.Subscription{
			CustomerID:          input.CustomerID,
			PublicationID:       publication.ID,
			AddressID:           address.ID,
			AreaID:              address.AreaID,
			Quantity:            quantity,
			Status:              enums.SubscriptionStatusPending,
			DeliveryPreferences: input.DeliveryPreferences,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create holding subscription")
		}

		request, err = repo.CreateChangeRequest(ctx, &models.SubscriptionChangeRequest{
			CustomerID:          input.CustomerID,
			SubscriptionID:      subscription.ID,
			PublicationID:       publication.ID,
			RequestType:         enums.ChangeRequestTypeNew,
			Status:              enums.ChangeRequestStatusPending,
			EffectiveDate:       input.EffectiveDate,
			NewQuantity:         input.NewQuantity,
			NewAddressID:        input.NewAddressID,
			DeliveryPreferences: input.DeliveryPreferences,
			Comments:            input.Comments,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create change request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) submitExisting(ctx context.Context, input SubmitInput) (*models.SubscriptionChangeRequest, error) {
	if input.SubscriptionID == nil || *input.SubscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id required")
	}

	subscription, err := s.repo.FindSubscription(ctx, *input.SubscriptionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if subscription.CustomerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "subscription does not belong to customer")
	}
	if subscription.Status != enums.SubscriptionStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "subscription is not active")
	}

	if input.RequestType == enums.ChangeRequestTypeUpdate {
		if input.NewQuantity == nil && input.NewAddressID == nil && input.DeliveryPreferences == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "update request requires at least one change")
		}
		if input.NewAddressID != nil {
			if _, err := s.loadCustomerAddress(ctx, s.repo, input.CustomerID, *input.NewAddressID); err != nil {
				return nil, err
			}
		}
	}

	var request *models.SubscriptionChangeRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err = repo.CreateChangeRequest(ctx, &models.SubscriptionChangeRequest{
			CustomerID:          input.CustomerID,
			SubscriptionID:      subscription.ID,
			PublicationID:       subscription.PublicationID,
			RequestType:         input.RequestType,
			Status:              enums.ChangeRequestStatusPending,
			EffectiveDate:       input.EffectiveDate,
			NewQuantity:         input.NewQuantity,
			NewAddressID:        input.NewAddressID,
			DeliveryPreferences: input.DeliveryPreferences,
			Comments:            input.Comments,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create change request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) Decide(ctx context.Context, input DecideInput) (*models.SubscriptionChangeRequest, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Actor.IsManager() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only managers decide change requests")
	}
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.Decision != DecisionApprove && input.Decision != DecisionReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}

	var request *models.SubscriptionChangeRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		request, err = repo.FindChangeRequest(ctx, input.RequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "change request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load change request")
		}
		if request.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "change request already decided")
		}

		subscription, err := repo.FindSubscription(ctx, request.SubscriptionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
		}

		areaID, err := s.governingArea(ctx, repo, request, subscription)
		if err != nil {
			return err
		}
		if err := s.guard.Authorize(ctx, input.Actor, areaID); err != nil {
			return err
		}

		now := time.Now().UTC()
		status := enums.ChangeRequestStatusRejected
		if input.Decision == DecisionApprove {
			status = enums.ChangeRequestStatusApproved
			if err := s.applyApproval(ctx, repo, request, subscription); err != nil {
				return err
			}
		}

		requestUpdates := map[string]any{
			"status":       status,
			"processed_by": input.Actor.ID,
			"processed_at": now,
		}
		if input.Comments != nil {
			requestUpdates["comments"] = *input.Comments
		}
		if err := repo.UpdateChangeRequest(ctx, request.ID, requestUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update change request")
		}

		request.Status = status
		request.ProcessedBy = &input.Actor.ID
		request.ProcessedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// governingArea picks the area that authorizes a decision: the subscription's
// own area first, then the target address, then the publication's area.
func (s *service) governingArea(ctx context.Context, repo Repository, request *models.SubscriptionChangeRequest, subscription *models.Subscription) (uuid.UUID, error) {
	if subscription.AreaID != uuid.Nil {
		return subscription.AreaID, nil
	}

	if request.NewAddressID != nil {
		address, err := repo.FindAddress(ctx, *request.NewAddressID)
		if err == nil {
			return address.AreaID, nil
		}
		if err != gorm.ErrRecordNotFound {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request address")
		}
	}

	publication, err := repo.FindPublication(ctx, request.PublicationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "no governing area for request")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load publication")
	}
	return publication.AreaID, nil
}

func (s *service) applyApproval(ctx context.Context, repo Repository, request *models.SubscriptionChangeRequest, subscription *models.Subscription) error {
	switch request.RequestType {
	case enums.ChangeRequestTypeNew:
		return s.approveNew(ctx, repo, request, subscription)
	case enums.ChangeRequestTypeUpdate:
		return s.approveUpdate(ctx, repo, request, subscription)
	case enums.ChangeRequestTypeCancel:
		updates := map[string]any{
			"status":   enums.SubscriptionStatusCancelled,
			"end_date": request.EffectiveDate,
		}
		if err := repo.UpdateSubscription(ctx, subscription.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel subscription")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown request type")
	}
}

func (s *service) approveNew(ctx context.Context, repo Repository, request *models.SubscriptionChangeRequest, subscription *models.Subscription) error {
	if subscription.Status != enums.SubscriptionStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "holding subscription is not pending")
	}

	updates := map[string]any{
		"status":     enums.SubscriptionStatusActive,
		"start_date": request.EffectiveDate,
	}

	// The holding address may have been deactivated since submission.
	address, err := repo.FindAddress(ctx, subscription.AddressID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription address")
	}
	if err == gorm.ErrRecordNotFound || !address.Active {
		fallback, err := repo.FindDefaultAddress(ctx, request.CustomerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeValidation, "customer has no valid delivery address")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default address")
		}
		updates["address_id"] = fallback.ID
		updates["area_id"] = fallback.AreaID
	}

	if err := repo.UpdateSubscription(ctx, subscription.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate subscription")
	}
	return nil
}

func (s *service) approveUpdate(ctx context.Context, repo Repository, request *models.SubscriptionChangeRequest, subscription *models.Subscription) error {
	if subscription.Status != enums.SubscriptionStatusActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "subscription is not active")
	}

	updates := map[string]any{}
	if request.NewQuantity != nil {
		updates["quantity"] = *request.NewQuantity
	}
	if request.NewAddressID != nil {
		address, err := s.loadCustomerAddress(ctx, repo, request.CustomerID, *request.NewAddressID)
		if err != nil {
			return err
		}
		updates["address_id"] = address.ID
		updates["area_id"] = address.AreaID
	}
	if request.DeliveryPreferences != nil {
		updates["delivery_preferences"] = *request.DeliveryPreferences
	}
	if len(updates) == 0 {
		return nil
	}

	if err := repo.UpdateSubscription(ctx, subscription.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subscription")
	}
	return nil
}

func (s *service) resolveAddress(ctx context.Context, repo Repository, customerID uuid.UUID, addressID *uuid.UUID) (*models.Address, error) {
	if addressID != nil && *addressID != uuid.Nil {
		return s.loadCustomerAddress(ctx, repo, customerID, *addressID)
	}
	address, err := repo.FindDefaultAddress(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer has no valid delivery address")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default address")
	}
	return address, nil
}

func (s *service) loadCustomerAddress(ctx context.Context, repo Repository, customerID, addressID uuid.UUID) (*models.Address, error) {
	address, err := repo.FindAddress(ctx, addressID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to customer")
	}
	if !address.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is inactive")
	}
	return address, nil
}
