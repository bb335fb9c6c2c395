package schedules

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/internal/identity"
	dbpkg "github.com/newsroute/newsroute-backend/pkg/db"
	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
	"github.com/newsroute/newsroute-backend/pkg/outbox"
	"github.com/newsroute/newsroute-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CreateInput materializes one personnel's run sheet for a date.
type CreateInput struct {
	Actor        *identity.Actor
	PersonnelID  uuid.UUID
	RouteID      uuid.UUID
	ScheduleDate time.Time
	Notes        *string
}

// CreateResult carries the schedule and its generated items.
type CreateResult struct {
	Schedule *models.DeliverySchedule
	Items    []models.DeliveryItem
}

// MarkItemInput resolves one delivery item.
type MarkItemInput struct {
	Actor      *identity.Actor
	ItemID     uuid.UUID
	Status     enums.DeliveryItemStatus
	Notes      *string
	PhotoProof *string
}

// Service defines the delivery schedule materializer.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	MarkItem(ctx context.Context, input MarkItemInput) (*models.DeliveryItem, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	guard  identity.Service
	outbox outboxPublisher
}

// NewService builds a schedules service with the required dependencies.
func NewService(repo Repository, tx txRunner, guard identity.Service, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("schedules repository required")
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
	return &service{repo: repo, tx: tx, guard: guard, outbox: outboxSvc}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Actor.IsManager() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only managers create schedules")
	}
	if input.PersonnelID == uuid.Nil || input.RouteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "personnel and route are required")
	}
	if input.ScheduleDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "schedule date is required")
	}
	scheduleDate := truncateToDate(input.ScheduleDate)

	var result *CreateResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		personnel, err := repo.FindPersonnel(ctx, input.PersonnelID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "personnel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load personnel")
		}
		if personnel.Role != enums.UserRoleDeliverer || !personnel.Active {
			return pkgerrors.New(pkgerrors.CodeValidation, "personnel is not an active deliverer")
		}

		route, err := repo.FindRoute(ctx, input.RouteID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "route not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load route")
		}
		if !route.Active {
			return pkgerrors.New(pkgerrors.CodeValidation, "route is inactive")
		}
		if route.PersonnelID != personnel.ID {
			return pkgerrors.New(pkgerrors.CodeValidation, "route is not assigned to personnel")
		}
		if err := s.guard.Authorize(ctx, input.Actor, route.AreaID); err != nil {
			return err
		}

		exists, err := repo.ExistsScheduleForDate(ctx, personnel.ID, scheduleDate)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing schedule")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "personnel already scheduled for date")
		}

		schedule, err := repo.CreateSchedule(ctx, &models.DeliverySchedule{
			PersonnelID:  personnel.ID,
			RouteID:      route.ID,
			AreaID:       route.AreaID,
			ScheduleDate: scheduleDate,
			Status:       enums.ScheduleStatusPending,
			Notes:        input.Notes,
		})
		if err != nil {
			// Concurrent materializers race past the existence check; the
			// unique index is the backstop.
			if dbpkg.IsUniqueViolation(err, "ux_delivery_schedules_personnel_date") {
				return pkgerrors.New(pkgerrors.CodeConflict, "personnel already scheduled for date")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create schedule")
		}

		subscriptions, err := repo.FindActiveSubscriptions(ctx, route.AreaID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active subscriptions")
		}
		items := make([]models.DeliveryItem, 0, len(subscriptions))
		for _, subscription := range subscriptions {
			items = append(items, models.DeliveryItem{
				ScheduleID:     schedule.ID,
				SubscriptionID: subscription.ID,
				Quantity:       subscription.Quantity,
				Status:         enums.DeliveryItemStatusPending,
			})
		}
		if err := repo.CreateDeliveryItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery items")
		}

		result = &CreateResult{Schedule: schedule, Items: items}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventScheduleCreated,
			AggregateType: enums.OutboxAggregateDeliverySchedule,
			AggregateID:   schedule.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.ScheduleCreatedEvent{
				ScheduleID:   schedule.ID,
				PersonnelID:  personnel.ID,
				AreaID:       route.AreaID,
				ScheduleDate: scheduleDate,
				ItemCount:    len(items),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) MarkItem(ctx context.Context, input MarkItemInput) (*models.DeliveryItem, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if !input.Status.IsValid() || !input.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must resolve the item")
	}

	var result *models.DeliveryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, input.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "delivery item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery item")
		}
		schedule, err := repo.FindSchedule(ctx, item.ScheduleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load schedule")
		}
		if err := s.authorizeMark(ctx, input.Actor, schedule); err != nil {
			return err
		}
		if item.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery item is already resolved")
		}

		updates := map[string]any{"status": input.Status}
		now := time.Now().UTC()
		if input.Status == enums.DeliveryItemStatusDelivered {
			updates["delivered_at"] = now
			item.DeliveredAt = &now
		}
		if input.Notes != nil {
			updates["notes"] = input.Notes
			item.Notes = input.Notes
		}
		if input.PhotoProof != nil {
			updates["photo_proof"] = input.PhotoProof
			item.PhotoProof = input.PhotoProof
		}
		if err := repo.UpdateItem(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery item")
		}
		item.Status = input.Status

		unresolved, err := repo.CountUnresolvedItems(ctx, schedule.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unresolved items")
		}
		scheduleStatus := enums.ScheduleStatusInProgress
		if unresolved == 0 {
			scheduleStatus = enums.ScheduleStatusCompleted
		}
		if scheduleStatus != schedule.Status {
			if err := repo.UpdateSchedule(ctx, schedule.ID, map[string]any{"status": scheduleStatus}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update schedule status")
			}
		}

		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// authorizeMark lets the assigned deliverer resolve their own items; managers
// are scoped by the schedule's area.
func (s *service) authorizeMark(ctx context.Context, actor *identity.Actor, schedule *models.DeliverySchedule) error {
	if actor.Role == enums.UserRoleDeliverer {
		if actor.ID != schedule.PersonnelID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "schedule belongs to another deliverer")
		}
		return nil
	}
	if !actor.IsManager() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "customers cannot resolve delivery items")
	}
	return s.guard.Authorize(ctx, actor, schedule.AreaID)
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
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
