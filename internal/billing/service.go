package billing

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
	"github.com/newsroute/newsroute-backend/pkg/pagination"
)

const runName = "billing_generate"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// GenerateInput scopes one billing run.
type GenerateInput struct {
	Actor   *identity.Actor
	Month   int
	Year    int
	AreaIDs []uuid.UUID
}

// RunResult summarizes what a billing run produced.
type RunResult struct {
	BillCount   int
	ItemCount   int
	TotalBilled decimal.Decimal
	BillNumbers []string
}

// ListInput filters a bill listing for one actor.
type ListInput struct {
	Actor   *identity.Actor
	AreaIDs []uuid.UUID
	Status  *enums.BillStatus
	Limit   int
	Cursor  string
}

// ListResult is one page of bills plus the cursor for the next page.
type ListResult struct {
	Bills      []models.Bill
	NextCursor string
}

// Service defines the billing generator.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*RunResult, error)
	ListBills(ctx context.Context, input ListInput) (*ListResult, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	guard  identity.Service
	outbox outboxPublisher
	locks  LockFactory
	runs   *metrics.RunMetrics
	dueDay int
}

// NewService builds a billing service with the required dependencies.
func NewService(repo Repository, tx txRunner, guard identity.Service, outboxSvc outboxPublisher, locks LockFactory, runs *metrics.RunMetrics, dueDay int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("billing repository required")
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
	if locks == nil {
		return nil, fmt.Errorf("run lock factory required")
	}
	if dueDay <= 0 || dueDay > 28 {
		dueDay = 15
	}
	return &service{
		repo:   repo,
		tx:     tx,
		guard:  guard,
		outbox: outboxSvc,
		locks:  locks,
		runs:   runs,
		dueDay: dueDay,
	}, nil
}

func (s *service) Generate(ctx context.Context, input GenerateInput) (*RunResult, error) {
	start := time.Now()
	result, err := s.generate(ctx, input)
	s.runs.ObserveDuration(runName, time.Since(start))
	if err != nil {
		s.runs.IncFailure(runName)
		return nil, err
	}
	s.runs.IncSuccess(runName)
	s.runs.AddRecords(runName, result.BillCount)
	return result, nil
}

func (s *service) generate(ctx context.Context, input GenerateInput) (*RunResult, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Actor.IsManager() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only managers run billing")
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

	lock, err := s.locks(input.Month, input.Year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build run lock")
	}
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire run lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "billing run already in progress for period")
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	var result *RunResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		subscriptions, err := repo.FindBillableSubscriptions(ctx, areaIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load billable subscriptions")
		}

		groups := groupSubscriptions(subscriptions)
		publications, err := repo.FindPublications(ctx, publicationIDs(subscriptions))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load publications")
		}

		periodFrom := time.Date(input.Year, time.Month(input.Month), 1, 0, 0, 0, 0, time.UTC)
		periodTo := periodFrom.AddDate(0, 1, -1)
		dueDate := time.Date(input.Year, time.Month(input.Month), s.dueDay, 0, 0, 0, 0, time.UTC)

		result = &RunResult{TotalBilled: decimal.Zero}
		for _, group := range groups {
			exists, err := repo.ExistsBillForPeriod(ctx, group.customerID, group.areaID, input.Month, input.Year)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing bill")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeConflict, "period already billed for customer")
			}

			seq, err := repo.NextBillSequence(ctx, input.Month, input.Year)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate bill sequence")
			}

			total := decimal.Zero
			items := make([]models.BillItem, 0, len(group.subscriptions))
			for _, subscription := range group.subscriptions {
				publication, ok := publications[subscription.PublicationID]
				if !ok {
					return pkgerrors.New(pkgerrors.CodeDependency, "publication missing for subscription")
				}
				lineTotal := publication.Price.Mul(decimal.NewFromInt(int64(subscription.Quantity)))
				items = append(items, models.BillItem{
					SubscriptionID: subscription.ID,
					PublicationID:  publication.ID,
					Quantity:       subscription.Quantity,
					UnitPrice:      publication.Price,
					TotalPrice:     lineTotal,
					PeriodFrom:     periodFrom,
					PeriodTo:       periodTo,
				})
				total = total.Add(lineTotal)
			}

			bill, err := repo.CreateBill(ctx, &models.Bill{
				CustomerID:        group.customerID,
				AreaID:            group.areaID,
				BillNumber:        FormatBillNumber(input.Month, input.Year, seq),
				SequenceNumber:    seq,
				BillMonth:         input.Month,
				BillYear:          input.Year,
				TotalAmount:       total,
				OutstandingAmount: total,
				Status:            enums.BillStatusUnpaid,
				DueDate:           dueDate,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bill")
			}
			for i := range items {
				items[i].BillID = bill.ID
			}
			if err := repo.CreateBillItems(ctx, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bill items")
			}

			result.BillCount++
			result.ItemCount += len(items)
			result.TotalBilled = result.TotalBilled.Add(total)
			result.BillNumbers = append(result.BillNumbers, bill.BillNumber)
		}

		if result.BillCount == 0 {
			return nil
		}

		areaID := uuid.Nil
		if len(areaIDs) == 1 {
			areaID = areaIDs[0]
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventBillingRunCompleted,
			AggregateType: enums.OutboxAggregateBillingRun,
			AggregateID:   uuid.New(),
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: payloads.BillingRunCompletedEvent{
				AreaID:      areaID,
				BillMonth:   input.Month,
				BillYear:    input.Year,
				BillCount:   result.BillCount,
				TotalBilled: result.TotalBilled,
				CompletedAt: time.Now().UTC(),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListBills pages the bills an actor may see. Customers see their own bills,
// managers see every bill in their areas.
func (s *service) ListBills(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	query := ListBillsQuery{Status: input.Status}
	switch {
	case input.Actor.Role == enums.UserRoleCustomer:
		customerID := input.Actor.ID
		query.CustomerID = &customerID
	case input.Actor.IsManager():
		areaIDs, err := s.guard.ScopeAreas(ctx, input.Actor, input.AreaIDs)
		if err != nil {
			return nil, err
		}
		query.AreaIDs = areaIDs
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot list bills")
	}

	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	query.Cursor = cursor

	limit := pagination.NormalizeLimit(input.Limit)
	query.Limit = pagination.LimitWithBuffer(input.Limit)

	bills, err := s.repo.ListBills(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bills")
	}

	result := &ListResult{Bills: bills}
	if len(bills) > limit {
		result.Bills = bills[:limit]
		last := result.Bills[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// FormatBillNumber renders the deterministic bill number for a period.
func FormatBillNumber(month, year, seq int) string {
	return fmt.Sprintf("BILL-%d%02d-%d", year, month, seq)
}

type billingGroup struct {
	customerID    uuid.UUID
	areaID        uuid.UUID
	subscriptions []models.Subscription
}

// groupSubscriptions buckets by (customer, area) preserving load order.
func groupSubscriptions(subscriptions []models.Subscription) []billingGroup {
	type key struct {
		customerID uuid.UUID
		areaID     uuid.UUID
	}
	index := make(map[key]int)
	groups := make([]billingGroup, 0)
	for _, subscription := range subscriptions {
		k := key{customerID: subscription.CustomerID, areaID: subscription.AreaID}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, billingGroup{customerID: k.customerID, areaID: k.areaID})
		}
		groups[i].subscriptions = append(groups[i].subscriptions, subscription)
	}
	return groups
}

func publicationIDs(subscriptions []models.Subscription) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(subscriptions))
	ids := make([]uuid.UUID, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		if _, ok := seen[subscription.PublicationID]; ok {
			continue
		}
		seen[subscription.PublicationID] = struct{}{}
		ids = append(ids, subscription.PublicationID)
	}
	return ids
}

func buildActor(actor *identity.Actor) *outbox.ActorRef {
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
