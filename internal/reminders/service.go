package reminders

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
	"github.com/newsroute/newsroute-backend/pkg/metrics"
	"github.com/newsroute/newsroute-backend/pkg/outbox"
	"github.com/newsroute/newsroute-backend/pkg/outbox/payloads"
)

const runName = "reminder_send"

const defaultCooldown = 7 * 24 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// SendInput scopes one reminder run.
type SendInput struct {
	Actor   *identity.Actor
	AreaIDs []uuid.UUID
}

// RunResult summarizes what a reminder run produced.
type RunResult struct {
	ReminderCount   int
	SkippedCooldown int
	EmailCount      int
	PrintCount      int
}

// Service defines the overdue reminder throttler.
type Service interface {
	Send(ctx context.Context, input SendInput) (*RunResult, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	guard    identity.Service
	outbox   outboxPublisher
	runs     *metrics.RunMetrics
	cooldown time.Duration
}

// NewService builds a reminders service with the required dependencies.
func NewService(repo Repository, tx txRunner, guard identity.Service, outboxSvc outboxPublisher, runs *metrics.RunMetrics, cooldown time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reminders repository required")
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
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &service{
		repo:     repo,
		tx:       tx,
		guard:    guard,
		outbox:   outboxSvc,
		runs:     runs,
		cooldown: cooldown,
	}, nil
}

func (s *service) Send(ctx context.Context, input SendInput) (*RunResult, error) {
	start := time.Now()
	result, err := s.send(ctx, input)
	s.runs.ObserveDuration(runName, time.Since(start))
	if err != nil {
		s.runs.IncFailure(runName)
		return nil, err
	}
	s.runs.IncSuccess(runName)
	s.runs.AddRecords(runName, result.ReminderCount)
	return result, nil
}

func (s *service) send(ctx context.Context, input SendInput) (*RunResult, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Actor.IsManager() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only managers send reminders")
	}

	areaIDs, err := s.guard.ScopeAreas(ctx, input.Actor, input.AreaIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var result *RunResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		bills, err := repo.FindOverdueBills(ctx, areaIDs, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load overdue bills")
		}
		customers, err := repo.FindCustomers(ctx, customerIDs(bills))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customers")
		}

		result = &RunResult{}
		for _, bill := range bills {
			last, err := repo.LastReminderAt(ctx, bill.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load last reminder")
			}
			if last != nil && now.Sub(*last) < s.cooldown {
				result.SkippedCooldown++
				continue
			}

			customer, ok := customers[bill.CustomerID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeDependency, "customer missing for bill")
			}
			method := enums.ReminderDeliveryMethodPrint
			if customer.NotifyByEmail {
				method = enums.ReminderDeliveryMethodEmail
			}

			reminder, err := repo.CreateReminder(ctx, &models.PaymentReminder{
				BillID:         bill.ID,
				CustomerID:     bill.CustomerID,
				ReminderType:   enums.ReminderTypeOverdue,
				DeliveryMethod: method,
				Status:         enums.ReminderStatusPending,
				ReminderDate:   now,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reminder")
			}

			event := outbox.DomainEvent{
				EventType:     enums.OutboxEventReminderCreated,
				AggregateType: enums.OutboxAggregatePaymentReminder,
				AggregateID:   reminder.ID,
				Version:       1,
				Actor:         actorRef(input.Actor),
				Data: payloads.ReminderCreatedEvent{
					ReminderID:     reminder.ID,
					BillID:         bill.ID,
					BillNumber:     bill.BillNumber,
					CustomerID:     bill.CustomerID,
					Outstanding:    bill.OutstandingAmount,
					DueDate:        bill.DueDate,
					DeliveryMethod: method,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}

			result.ReminderCount++
			if method == enums.ReminderDeliveryMethodEmail {
				result.EmailCount++
			} else {
				result.PrintCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func customerIDs(bills []models.Bill) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(bills))
	ids := make([]uuid.UUID, 0, len(bills))
	for _, bill := range bills {
		if _, ok := seen[bill.CustomerID]; ok {
			continue
		}
		seen[bill.CustomerID] = struct{}{}
		ids = append(ids, bill.CustomerID)
	}
	return ids
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
