package commissions

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
	"github.com/newsroute/newsroute-backend/pkg/metrics"
	"github.com/newsroute/newsroute-backend/pkg/outbox"
	"github.com/newsroute/newsroute-backend/pkg/outbox/payloads"
)

const runName = "commission_process"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ProcessInput scopes one commission run.
type ProcessInput struct {
	Actor   *identity.Actor
	Month   int
	Year    int
	AreaIDs []uuid.UUID
}

// RunResult summarizes what a commission run produced.
type RunResult struct {
	PaymentCount    int
	SkippedExisting int
	SkippedZero     int
	TotalPaid       decimal.Decimal
}

// Service defines the deliverer commission calculator.
type Service interface {
	Process(ctx context.Context, input ProcessInput) (*RunResult, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	guard       identity.Service
	outbox      outboxPublisher
	runs        *metrics.RunMetrics
	defaultRate decimal.Decimal
}

// NewService builds a commissions service with the required dependencies.
func NewService(repo Repository, tx txRunner, guard identity.Service, outboxSvc outboxPublisher, runs *metrics.RunMetrics, defaultRate float64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commissions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if guard == nil {
		return nil, fmt.Errorf("identity guard required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	rate := decimal.NewFromFloat(defaultRate)
	if !rate.IsPositive() {
		return nil, fmt.Errorf("default commission rate must be positive")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		guard:       guard,
		outbox:      outboxSvc,
		runs:        runs,
		defaultRate: rate,
	}, nil
}

func (s *service) Process(ctx context.Context, input ProcessInput) (*RunResult, error) {
	start := time.Now()
	result, err := s.process(ctx, input)
	s.runs.ObserveDuration(runName, time.Since(start))
	if err != nil {
		s.runs.IncFailure(runName)
		return nil, err
	}
	s.runs.IncSuccess(runName)
	s.runs.AddRecords(runName, result.PaymentCount)
	return result, nil
}

func (s *service) process(ctx context.Context, input ProcessInput) (*RunResult, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Actor.IsManager() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only managers process commissions")
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	if input.Year < 2000 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year is out of range")
	}

	areaIDs, err := s.guard.ScopeAreas(ctx, input.Actor, input.AreaIDs)
	if err != nil {
		return nil, err
	}

	from := time.Date(input.Year, time.Month(input.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var result *RunResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		deliverers, err := repo.FindActiveDeliverers(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deliverers")
		}

		result = &RunResult{TotalPaid: decimal.Zero}
		for _, deliverer := range deliverers {
			exists, err := repo.ExistsPaymentForPeriod(ctx, deliverer.ID, input.Month, input.Year)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payout")
			}
			if exists {
				result.SkippedExisting++
				continue
			}

			value, err := repo.SumDeliveredValue(ctx, deliverer.ID, areaIDs, from, to)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum delivered value")
			}
			if !value.IsPositive() {
				result.SkippedZero++
				continue
			}

			rate := s.defaultRate
			if deliverer.CommissionRate != nil && deliverer.CommissionRate.IsPositive() {
				rate = *deliverer.CommissionRate
			}
			amount := value.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)

			payment, err := repo.CreatePayment(ctx, &models.DelivererPayment{
				PersonnelID:    deliverer.ID,
				Month:          input.Month,
				Year:           input.Year,
				Amount:         amount,
				CommissionRate: rate,
				Status:         enums.DelivererPaymentStatusPending,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payout")
			}

			event := outbox.DomainEvent{
				EventType:     enums.OutboxEventCommissionProcessed,
				AggregateType: enums.OutboxAggregateDelivererPayment,
				AggregateID:   payment.ID,
				Version:       1,
				Actor:         actorRef(input.Actor),
				Data: payloads.CommissionProcessedEvent{
					PaymentID:   payment.ID,
					PersonnelID: deliverer.ID,
					Month:       input.Month,
					Year:        input.Year,
					Amount:      amount,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}

			result.PaymentCount++
			result.TotalPaid = result.TotalPaid.Add(amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func actorRef(actor *identity.Actor) *outbox.ActorRef {
	if actor == nil {
		return nil
	}
	ref := &outbox.ActorRef{
		UserID: actor.ID,
		Role:   actor.Role.String(),
	}
	if len(actor.AreaIDs) == 1 {
		area := actor.AreaIDs[0]
		ref.AreaID = &area
	}
	return ref
}
