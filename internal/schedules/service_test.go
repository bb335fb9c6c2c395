package schedules

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
	"github.com/newsroute/newsroute-backend/pkg/outbox"
	"github.com/newsroute/newsroute-backend/pkg/outbox/payloads"
)

type stubScheduleRepo struct {
	personnel     map[uuid.UUID]*models.User
	routes        map[uuid.UUID]*models.DeliveryRoute
	subscriptions []models.Subscription
	schedules     map[uuid.UUID]*models.DeliverySchedule
	items         map[uuid.UUID]*models.DeliveryItem

	scheduleUpdates map[uuid.UUID]map[string]any
	itemUpdates     map[uuid.UUID]map[string]any
}

func newStubScheduleRepo() *stubScheduleRepo {
	return &stubScheduleRepo{
		personnel:       make(map[uuid.UUID]*models.User),
		routes:          make(map[uuid.UUID]*models.DeliveryRoute),
		schedules:       make(map[uuid.UUID]*models.DeliverySchedule),
		items:           make(map[uuid.UUID]*models.DeliveryItem),
		scheduleUpdates: make(map[uuid.UUID]map[string]any),
		itemUpdates:     make(map[uuid.UUID]map[string]any),
	}
}

func (s *stubScheduleRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubScheduleRepo) FindPersonnel(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.personnel[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubScheduleRepo) FindRoute(ctx context.Context, id uuid.UUID) (*models.DeliveryRoute, error) {
	route, ok := s.routes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return route, nil
}

func (s *stubScheduleRepo) ExistsScheduleForDate(ctx context.Context, personnelID uuid.UUID, date time.Time) (bool, error) {
	for _, schedule := range s.schedules {
		if schedule.PersonnelID == personnelID && schedule.ScheduleDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubScheduleRepo) FindActiveSubscriptions(ctx context.Context, areaID uuid.UUID) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, subscription := range s.subscriptions {
		if subscription.AreaID == areaID && subscription.Status == enums.SubscriptionStatusActive {
			out = append(out, subscription)
		}
	}
	return out, nil
}

func (s *stubScheduleRepo) CreateSchedule(ctx context.Context, schedule *models.DeliverySchedule) (*models.DeliverySchedule, error) {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	s.schedules[schedule.ID] = schedule
	return schedule, nil
}

func (s *stubScheduleRepo) CreateDeliveryItems(ctx context.Context, items []models.DeliveryItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		copied := items[i]
		s.items[copied.ID] = &copied
	}
	return nil
}

func (s *stubScheduleRepo) FindSchedule(ctx context.Context, id uuid.UUID) (*models.DeliverySchedule, error) {
	schedule, ok := s.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return schedule, nil
}

func (s *stubScheduleRepo) FindItem(ctx context.Context, id uuid.UUID) (*models.DeliveryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubScheduleRepo) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.itemUpdates[id] = updates
	if status, ok := updates["status"].(enums.DeliveryItemStatus); ok {
		s.items[id].Status = status
	}
	return nil
}

func (s *stubScheduleRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.scheduleUpdates[id] = updates
	if status, ok := updates["status"].(enums.ScheduleStatus); ok {
		s.schedules[id].Status = status
	}
	return nil
}

func (s *stubScheduleRepo) CountUnresolvedItems(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	var count int64
	for _, item := range s.items {
		if item.ScheduleID == scheduleID && item.Status == enums.DeliveryItemStatusPending {
			count++
		}
	}
	return count, nil
}

type stubGuard struct{}

func (stubGuard) Resolve(ctx context.Context, userID uuid.UUID) (*identity.Actor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubGuard) Authorize(ctx context.Context, actor *identity.Actor, areaID uuid.UUID) error {
	if actor != nil && actor.CanAccessArea(areaID) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "area outside actor scope")
}

func (s stubGuard) ScopeAreas(ctx context.Context, actor *identity.Actor, requested []uuid.UUID) ([]uuid.UUID, error) {
	return requested, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type scheduleFixture struct {
	repo      *stubScheduleRepo
	pub       *stubOutboxPublisher
	svc       Service
	manager   *identity.Actor
	deliverer *models.User
	route     *models.DeliveryRoute
	areaID    uuid.UUID
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	repo := newStubScheduleRepo()
	pub := &stubOutboxPublisher{}
	svc, err := NewService(repo, stubTxRunner{}, stubGuard{}, pub)
	require.NoError(t, err)

	areaID := uuid.New()
	deliverer := &models.User{ID: uuid.New(), Role: enums.UserRoleDeliverer, Active: true}
	route := &models.DeliveryRoute{ID: uuid.New(), AreaID: areaID, PersonnelID: deliverer.ID, Active: true}
	repo.personnel[deliverer.ID] = deliverer
	repo.routes[route.ID] = route

	return &scheduleFixture{
		repo:      repo,
		pub:       pub,
		svc:       svc,
		manager:   &identity.Actor{ID: uuid.New(), Role: enums.UserRoleManager, AreaIDs: []uuid.UUID{areaID}},
		deliverer: deliverer,
		route:     route,
		areaID:    areaID,
	}
}

func (f *scheduleFixture) addActiveSubscription(quantity int) models.Subscription {
	subscription := models.Subscription{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		AreaID:     f.areaID,
		Quantity:   quantity,
		Status:     enums.SubscriptionStatusActive,
	}
	f.repo.subscriptions = append(f.repo.subscriptions, subscription)
	return subscription
}

func TestCreateMaterializesItems(t *testing.T) {
	f := newScheduleFixture(t)
	f.addActiveSubscription(2)
	f.addActiveSubscription(1)
	f.repo.subscriptions = append(f.repo.subscriptions, models.Subscription{
		ID: uuid.New(), CustomerID: uuid.New(), AreaID: f.areaID, Quantity: 1, Status: enums.SubscriptionStatusCancelled,
	})

	result, err := f.svc.Create(context.Background(), CreateInput{
		Actor:        f.manager,
		PersonnelID:  f.deliverer.ID,
		RouteID:      f.route.ID,
		ScheduleDate: time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Equal(t, enums.ScheduleStatusPending, result.Schedule.Status)
	// Time of day is dropped from the schedule date.
	require.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), result.Schedule.ScheduleDate)
	require.Equal(t, 2, result.Items[0].Quantity)
	require.Equal(t, enums.DeliveryItemStatusPending, result.Items[0].Status)

	require.Len(t, f.pub.events, 1)
	require.Equal(t, enums.OutboxEventScheduleCreated, f.pub.events[0].EventType)
	payload, ok := f.pub.events[0].Data.(payloads.ScheduleCreatedEvent)
	require.True(t, ok)
	require.Equal(t, 2, payload.ItemCount)
	require.Equal(t, f.deliverer.ID, payload.PersonnelID)
}

func TestCreateDuplicateDateConflicts(t *testing.T) {
	f := newScheduleFixture(t)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Actor:        f.manager,
		PersonnelID:  f.deliverer.ID,
		RouteID:      f.route.ID,
		ScheduleDate: date,
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), CreateInput{
		Actor:        f.manager,
		PersonnelID:  f.deliverer.ID,
		RouteID:      f.route.ID,
		ScheduleDate: date,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreateRouteNotAssignedToPersonnel(t *testing.T) {
	f := newScheduleFixture(t)
	other := &models.User{ID: uuid.New(), Role: enums.UserRoleDeliverer, Active: true}
	f.repo.personnel[other.ID] = other

	_, err := f.svc.Create(context.Background(), CreateInput{
		Actor:        f.manager,
		PersonnelID:  other.ID,
		RouteID:      f.route.ID,
		ScheduleDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateOutsideAreaForbidden(t *testing.T) {
	f := newScheduleFixture(t)
	outsider := &identity.Actor{ID: uuid.New(), Role: enums.UserRoleManager, AreaIDs: []uuid.UUID{uuid.New()}}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Actor:        outsider,
		PersonnelID:  f.deliverer.ID,
		RouteID:      f.route.ID,
		ScheduleDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateRequiresManager(t *testing.T) {
	f := newScheduleFixture(t)
	actor := &identity.Actor{ID: f.deliverer.ID, Role: enums.UserRoleDeliverer, AreaIDs: []uuid.UUID{f.areaID}}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Actor:        actor,
		PersonnelID:  f.deliverer.ID,
		RouteID:      f.route.ID,
		ScheduleDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateUnknownPersonnel(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Actor:        f.manager,
		PersonnelID:  uuid.New(),
		RouteID:      f.route.ID,
		ScheduleDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func markFixture(t *testing.T) (*scheduleFixture, *models.DeliverySchedule, []uuid.UUID) {
	t.Helper()
	f := newScheduleFixture(t)
	f.addActiveSubscription(1)
	f.addActiveSubscription(1)

	result, err := f.svc.Create(context.Background(), CreateInput{
		Actor:        f.manager,
		PersonnelID:  f.deliverer.ID,
		RouteID:      f.route.ID,
		ScheduleDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	itemIDs := make([]uuid.UUID, 0, len(result.Items))
	for _, item := range result.Items {
		itemIDs = append(itemIDs, item.ID)
	}
	return f, result.Schedule, itemIDs
}

func TestMarkItemDelivered(t *testing.T) {
	f, schedule, itemIDs := markFixture(t)
	deliverer := &identity.Actor{ID: f.deliverer.ID, Role: enums.UserRoleDeliverer, AreaIDs: []uuid.UUID{f.areaID}}

	item, err := f.svc.MarkItem(context.Background(), MarkItemInput{
		Actor:  deliverer,
		ItemID: itemIDs[0],
		Status: enums.DeliveryItemStatusDelivered,
	})
	require.NoError(t, err)
	require.Equal(t, enums.DeliveryItemStatusDelivered, item.Status)
	require.NotNil(t, item.DeliveredAt)
	// One item still open, so the schedule moves to in progress.
	require.Equal(t, enums.ScheduleStatusInProgress, f.repo.schedules[schedule.ID].Status)
}

func TestMarkLastItemCompletesSchedule(t *testing.T) {
	f, schedule, itemIDs := markFixture(t)
	deliverer := &identity.Actor{ID: f.deliverer.ID, Role: enums.UserRoleDeliverer, AreaIDs: []uuid.UUID{f.areaID}}

	for _, id := range itemIDs {
		_, err := f.svc.MarkItem(context.Background(), MarkItemInput{
			Actor:  deliverer,
			ItemID: id,
			Status: enums.DeliveryItemStatusDelivered,
		})
		require.NoError(t, err)
	}
	require.Equal(t, enums.ScheduleStatusCompleted, f.repo.schedules[schedule.ID].Status)
}

func TestMarkItemFailedHasNoDeliveredAt(t *testing.T) {
	f, _, itemIDs := markFixture(t)
	deliverer := &identity.Actor{ID: f.deliverer.ID, Role: enums.UserRoleDeliverer, AreaIDs: []uuid.UUID{f.areaID}}

	notes := "nobody home"
	item, err := f.svc.MarkItem(context.Background(), MarkItemInput{
		Actor:  deliverer,
		ItemID: itemIDs[0],
		Status: enums.DeliveryItemStatusFailed,
		Notes:  &notes,
	})
	require.NoError(t, err)
	require.Equal(t, enums.DeliveryItemStatusFailed, item.Status)
	require.Nil(t, item.DeliveredAt)
	require.Equal(t, &notes, item.Notes)
}

func TestMarkItemTwiceConflicts(t *testing.T) {
	f, _, itemIDs := markFixture(t)
	deliverer := &identity.Actor{ID: f.deliverer.ID, Role: enums.UserRoleDeliverer, AreaIDs: []uuid.UUID{f.areaID}}

	_, err := f.svc.MarkItem(context.Background(), MarkItemInput{
		Actor:  deliverer,
		ItemID: itemIDs[0],
		Status: enums.DeliveryItemStatusDelivered,
	})
	require.NoError(t, err)

	_, err = f.svc.MarkItem(context.Background(), MarkItemInput{
		Actor:  deliverer,
		ItemID: itemIDs[0],
		Status: enums.DeliveryItemStatusSkipped,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestMarkItemForeignDelivererForbidden(t *testing.T) {
	f, _, itemIDs := markFixture(t)
	outsider := &identity.Actor{ID: uuid.New(), Role: enums.UserRoleDeliverer, AreaIDs: []uuid.UUID{f.areaID}}

	_, err := f.svc.MarkItem(context.Background(), MarkItemInput{
		Actor:  outsider,
		ItemID: itemIDs[0],
		Status: enums.DeliveryItemStatusDelivered,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestMarkItemRejectsPendingStatus(t *testing.T) {
	f, _, itemIDs := markFixture(t)
	deliverer := &identity.Actor{ID: f.deliverer.ID, Role: enums.UserRoleDeliverer, AreaIDs: []uuid.UUID{f.areaID}}

	_, err := f.svc.MarkItem(context.Background(), MarkItemInput{
		Actor:  deliverer,
		ItemID: itemIDs[0],
		Status: enums.DeliveryItemStatusPending,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
