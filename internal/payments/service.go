package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ApplyInput records one payment against a bill.
type ApplyInput struct {
	Actor     *identity.Actor
	BillID    uuid.UUID
	Amount    decimal.Decimal
	Method    enums.PaymentMethod
	Reference *string
}

// ApplyResult carries the created payment and the bill after reconciliation.
type ApplyResult struct {
	Payment *models.Payment
	Bill    *models.Bill
}

// Service defines the payment reconciler.
type Service interface {
	Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	guard identity.Service
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, tx txRunner, guard identity.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if guard == nil {
		return nil, fmt.Errorf("identity guard required")
	}
	return &service{repo: repo, tx: tx, guard: guard}, nil
}

func (s *service) Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.BillID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	var result *ApplyResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		bill, err := repo.FindBill(ctx, input.BillID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bill")
		}
		if err := s.authorize(ctx, input.Actor, bill); err != nil {
			return err
		}
		if !bill.Status.HasBalance() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "bill is already settled")
		}

		paidAt := time.Now().UTC()
		seq, err := repo.NextReceiptSequence(ctx, int(paidAt.Month()), paidAt.Year())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate receipt sequence")
		}

		receivedBy := input.Actor.ID
		payment, err := repo.CreatePayment(ctx, &models.Payment{
			BillID:         bill.ID,
			Amount:         input.Amount,
			Method:         input.Method,
			ReceiptNumber:  FormatReceiptNumber(int(paidAt.Month()), paidAt.Year(), seq),
			SequenceNumber: seq,
			Reference:      input.Reference,
			ReceivedBy:     &receivedBy,
			PaidAt:         paidAt,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		// Overpayment clamps to zero, the surplus is not tracked.
		outstanding := bill.OutstandingAmount.Sub(input.Amount)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		status := enums.BillStatusPartiallyPaid
		if outstanding.IsZero() {
			status = enums.BillStatusPaid
		}
		if err := repo.UpdateBill(ctx, bill.ID, map[string]any{
			"outstanding_amount": outstanding,
			"status":             status,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bill balance")
		}

		bill.OutstandingAmount = outstanding
		bill.Status = status
		result = &ApplyResult{Payment: payment, Bill: bill}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// authorize lets a customer settle only their own bills; managers and
// deliverers are scoped by the bill's area.
func (s *service) authorize(ctx context.Context, actor *identity.Actor, bill *models.Bill) error {
	if actor.Role == enums.UserRoleCustomer {
		if actor.ID != bill.CustomerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "bill belongs to another customer")
		}
		return nil
	}
	return s.guard.Authorize(ctx, actor, bill.AreaID)
}

// FormatReceiptNumber renders the deterministic receipt number for a period.
func FormatReceiptNumber(month, year, seq int) string {
	return fmt.Sprintf("RCPT-%d%02d-%d", year, month, seq)
}
