package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	bookingRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/booking"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings/models"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/ptr"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/types"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*domain.Booking
	updated  []domain.BookingUpdate
	deleted  []uuid.UUID
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingRepo) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.Date != nil && !b.Date.Equal(*filter.Date) {
			continue
		}
		if filter.Slot != nil && b.Slot != *filter.Slot {
			continue
		}
		if !filter.IncludeDeleted && b.IsDeleted() {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, id uuid.UUID, upd domain.BookingUpdate) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.updated = append(f.updated, upd)
	if upd.RubberType != nil {
		b.RubberType = *upd.RubberType
	}
	return nil
}

func (f *fakeBookingRepo) CheckIn(_ context.Context, id uuid.UUID, at time.Time, by string) error {
	b := f.bookings[id]
	b.CheckinAt = &at
	b.CheckinBy = &by
	return nil
}

func (f *fakeBookingRepo) StartDrain(_ context.Context, id uuid.UUID, at time.Time) error {
	f.bookings[id].StartDrainAt = &at
	return nil
}

func (f *fakeBookingRepo) StopDrain(_ context.Context, id uuid.UUID, at time.Time, note *string) error {
	b := f.bookings[id]
	b.StopDrainAt = &at
	b.DrainNote = note
	return nil
}

func (f *fakeBookingRepo) WeightIn(_ context.Context, id uuid.UUID, weight float64, at time.Time, by string) error {
	b := f.bookings[id]
	b.WeightIn = &weight
	b.WeightInAt = &at
	b.WeightInBy = &by
	return nil
}

func (f *fakeBookingRepo) WeightOut(_ context.Context, id uuid.UUID, weight float64, at time.Time, by string) error {
	b := f.bookings[id]
	b.WeightOut = &weight
	b.WeightOutAt = &at
	b.WeightOutBy = &by
	return nil
}

func (f *fakeBookingRepo) SoftDelete(_ context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.DeletedAt = &now
	b.DeletedBy = &deletedBy
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeGate struct {
	requests []*domain.ApprovalRequest
}

func (f *fakeGate) CreateRequest(_ context.Context, req *domain.ApprovalRequest, _ *domain.User) (*domain.ApprovalRequest, error) {
	req.ID = uuid.New()
	req.Status = domain.ApprovalPending
	f.requests = append(f.requests, req)
	return req, nil
}

type fakeNotifier struct {
	triggered []string
}

func (f *fakeNotifier) Trigger(_ context.Context, sourceApp, actionType string, _ domain.NotificationPayload, _ *uuid.UUID) {
	f.triggered = append(f.triggered, sourceApp+"/"+actionType)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeBookingRepo, gate *fakeGate, notifier *fakeNotifier) *Service {
	return NewService(repo, gate, notifier, domain.DefaultSlotTable(), noopLogger{})
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:           uuid.New(),
		Date:         time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		StartTime:    types.TimeString("08:00"),
		EndTime:      types.TimeString("09:00"),
		Slot:         "08:00-09:00",
		QueueNo:      1,
		BookingCode:  "26011201",
		SupplierID:   uuid.New(),
		SupplierCode: "S001",
		SupplierName: "Rayong Rubber",
		RubberType:   "USS",
		Recorder:     "somchai",
	}
}

func admin() *domain.User {
	return &domain.User{ID: uuid.New(), Role: domain.RoleAdmin, Email: "admin@example.com"}
}

func staff() *domain.User {
	return &domain.User{ID: uuid.New(), Role: "staff_1", Email: "staff@example.com"}
}

func TestUpdate_ElevatedAppliesDirectly(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	gate := &fakeGate{}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, gate, notifier)

	resp, err := svc.Update(context.Background(), booking.ID, admin(), &models.UpdateRequest{
		RubberType: ptr.Ptr("CUP"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "CUP", resp.Booking.RubberType)
	assert.Empty(t, gate.requests)
	assert.Equal(t, []string{"BOOKINGS/UPDATE"}, notifier.triggered)
}

func TestUpdate_NonElevatedQueuesApproval(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	gate := &fakeGate{}
	svc := newTestService(repo, gate, &fakeNotifier{})
	actor := staff()

	resp, err := svc.Update(context.Background(), booking.ID, actor, &models.UpdateRequest{
		RubberType: ptr.Ptr("CUP"),
		Reason:     "wrong rubber type",
	})
	require.NoError(t, err)

	assert.False(t, resp.Applied)
	assert.Equal(t, "PENDING_APPROVAL", resp.Status)
	require.NotNil(t, resp.ApprovalID)

	// Ровно одна заявка, бронирование не тронуто
	require.Len(t, gate.requests, 1)
	assert.Empty(t, repo.updated)
	assert.Equal(t, "USS", repo.bookings[booking.ID].RubberType)

	req := gate.requests[0]
	assert.Equal(t, domain.EntityBooking, req.EntityType)
	assert.Equal(t, domain.ActionUpdate, req.ActionType)
	assert.Equal(t, booking.ID, req.EntityID)
	assert.Equal(t, actor.ID, req.RequesterID)
	assert.Equal(t, "USS", req.CurrentData["rubberType"])
	assert.Equal(t, "CUP", req.ProposedData["rubberType"])
}

func TestUpdate_SystemCallIsElevated(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	gate := &fakeGate{}
	svc := newTestService(repo, gate, &fakeNotifier{})

	resp, err := svc.Update(context.Background(), booking.ID, nil, &models.UpdateRequest{
		RubberType: ptr.Ptr("CUP"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.Empty(t, gate.requests)
}

func TestUpdate_EmptyRequest(t *testing.T) {
	booking := testBooking()
	svc := newTestService(newFakeBookingRepo(booking), &fakeGate{}, &fakeNotifier{})

	_, err := svc.Update(context.Background(), booking.ID, admin(), &models.UpdateRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemove_NonElevatedQueuesApproval(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	gate := &fakeGate{}
	svc := newTestService(repo, gate, &fakeNotifier{})

	resp, err := svc.Remove(context.Background(), booking.ID, staff(), "duplicate entry")
	require.NoError(t, err)

	assert.False(t, resp.Applied)
	assert.Empty(t, repo.deleted)
	require.Len(t, gate.requests, 1)
	assert.Equal(t, domain.ActionDelete, gate.requests[0].ActionType)
	assert.Equal(t, "duplicate entry", gate.requests[0].Reason)
}

func TestRemove_ElevatedDeletesDirectly(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeGate{}, notifier)

	resp, err := svc.Remove(context.Background(), booking.ID, admin(), "")
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	assert.Equal(t, []uuid.UUID{booking.ID}, repo.deleted)
	assert.Equal(t, []string{"BOOKINGS/DELETE"}, notifier.triggered)
}

func TestCheckIn(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	svc := newTestService(repo, &fakeGate{}, &fakeNotifier{})

	resp, err := svc.CheckIn(context.Background(), booking.ID, "gate operator")
	require.NoError(t, err)
	assert.NotNil(t, resp.CheckinAt)

	_, err = svc.CheckIn(context.Background(), booking.ID, "gate operator")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestDrainLifecycle(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	svc := newTestService(repo, &fakeGate{}, &fakeNotifier{})

	// Слив до регистрации въезда запрещен
	_, err := svc.StartDrain(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	_, err = svc.CheckIn(context.Background(), booking.ID, "gate operator")
	require.NoError(t, err)

	_, err = svc.StopDrain(context.Background(), booking.ID, nil)
	assert.ErrorIs(t, err, ErrDrainNotStarted)

	_, err = svc.StartDrain(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = svc.StartDrain(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrDrainAlreadyStarted)

	resp, err := svc.StopDrain(context.Background(), booking.ID, ptr.Ptr("ok"))
	require.NoError(t, err)
	assert.NotNil(t, resp.StopDrainAt)
}

func TestWeighing(t *testing.T) {
	booking := testBooking()
	repo := newFakeBookingRepo(booking)
	svc := newTestService(repo, &fakeGate{}, &fakeNotifier{})

	_, err := svc.CheckIn(context.Background(), booking.ID, "gate operator")
	require.NoError(t, err)

	// Выезд раньше въезда не взвешивается
	_, err = svc.WeightOut(context.Background(), booking.ID, 8000, "scale operator")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.WeightIn(context.Background(), booking.ID, 12500, "scale operator")
	require.NoError(t, err)

	resp, err := svc.WeightOut(context.Background(), booking.ID, 8000, "scale operator")
	require.NoError(t, err)
	require.NotNil(t, resp.NetWeight)
	assert.Equal(t, 4500.0, *resp.NetWeight)
}

func TestStats(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	first := testBooking()
	second := testBooking()
	second.Slot = "09:00-10:00"
	second.QueueNo = 5
	checkedIn := time.Now()
	second.CheckinAt = &checkedIn

	repo := newFakeBookingRepo(first, second)
	svc := newTestService(repo, &fakeGate{}, &fakeNotifier{})

	stats, err := svc.Stats(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.CheckedIn)
	assert.Equal(t, 1, stats.Pending)
	require.Len(t, stats.Slots, 5) // все слоты таблицы, включая пустые
	assert.Equal(t, "08:00-09:00", stats.Slots[0].Slot)
	assert.Equal(t, 1, stats.Slots[0].Count)
	require.NotNil(t, stats.Slots[0].Limit)
	assert.Equal(t, 4, *stats.Slots[0].Limit)
	assert.Nil(t, stats.Slots[4].Limit) // безлимитный слот
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), &fakeGate{}, &fakeNotifier{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
