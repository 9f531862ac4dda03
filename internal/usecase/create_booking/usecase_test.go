package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	bookingRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/booking"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/ptr"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/types"
)

type fakeBookingRepo struct {
	bookings  []*domain.Booking
	createErr []error // очередь ошибок для последовательных вызовов Create
	created   []*domain.Booking
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
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		if err != nil {
			return nil, err
		}
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.created = append(f.created, b)
	f.bookings = append(f.bookings, b)
	return b, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func newTestUseCase(repo *fakeBookingRepo, notifier *fakeNotifier) *UseCase {
	return NewUseCase(repo, domain.DefaultSlotTable(), &fakeTxManager{}, notifier, noopLogger{})
}

func validRequest(date time.Time, start, end string) *Request {
	return &Request{
		Date:          date,
		StartTime:     types.TimeString(start),
		EndTime:       types.TimeString(end),
		SupplierID:    uuid.New(),
		SupplierCode:  "S001",
		SupplierName:  "Rayong Rubber",
		TruckRegister: ptr.Ptr("70-1234"),
		RubberType:    "USS",
		Recorder:      "somchai",
	}
}

func existingBooking(date time.Time, slot string, queueNo int, supplierID uuid.UUID, truck *string) *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		Date:          date,
		Slot:          slot,
		QueueNo:       queueNo,
		SupplierID:    supplierID,
		TruckRegister: truck,
	}
}

func TestExecute_SequentialNumbering(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC) // понедельник
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, &fakeNotifier{})

	for i := 1; i <= 3; i++ {
		req := validRequest(date, "08:00", "09:00")
		req.TruckRegister = ptr.Ptr(uuid.NewString())
		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, i, resp.QueueNo)
	}
}

func TestExecute_SlotStartValues(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		start   string
		end     string
		queueNo int
	}{
		{"08:00", "09:00", 1},
		{"09:00", "10:00", 5},
		{"10:00", "11:00", 9},
		{"11:00", "12:00", 13},
		{"13:00", "14:00", 17},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			repo := &fakeBookingRepo{}
			uc := newTestUseCase(repo, &fakeNotifier{})

			resp, err := uc.Execute(context.Background(), validRequest(date, tt.start, tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.queueNo, resp.QueueNo)
		})
	}
}

func TestExecute_GapRefill(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	slot := "09:00-10:00"

	// Номера 5 и 7 заняты, 6 освобождён удалением
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		existingBooking(date, slot, 5, uuid.New(), nil),
		existingBooking(date, slot, 7, uuid.New(), nil),
	}}
	uc := newTestUseCase(repo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), validRequest(date, "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 6, resp.QueueNo)
}

func TestExecute_SlotFull(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	slot := "08:00-09:00"

	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		existingBooking(date, slot, 1, uuid.New(), nil),
		existingBooking(date, slot, 2, uuid.New(), nil),
		existingBooking(date, slot, 3, uuid.New(), nil),
		existingBooking(date, slot, 4, uuid.New(), nil),
	}}
	uc := newTestUseCase(repo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(date, "08:00", "09:00"))
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestExecute_UnlimitedSlotNeverFull(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	slot := "13:00-14:00"

	bookings := make([]*domain.Booking, 0, 30)
	for i := 0; i < 30; i++ {
		bookings = append(bookings, existingBooking(date, slot, 17+i, uuid.New(), nil))
	}
	repo := &fakeBookingRepo{bookings: bookings}
	uc := newTestUseCase(repo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), validRequest(date, "13:00", "14:00"))
	require.NoError(t, err)
	assert.Equal(t, 47, resp.QueueNo)
}

func TestExecute_SaturdayUnlimitedSlot(t *testing.T) {
	saturday := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())

	slot := "10:00-11:00"
	bookings := make([]*domain.Booking, 0, 4)
	for i := 0; i < 4; i++ {
		bookings = append(bookings, existingBooking(saturday, slot, 9+i, uuid.New(), nil))
	}
	repo := &fakeBookingRepo{bookings: bookings}
	uc := newTestUseCase(repo, &fakeNotifier{})

	// В будний день слот был бы полон; по субботам лимит снят
	resp, err := uc.Execute(context.Background(), validRequest(saturday, "10:00", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, 13, resp.QueueNo)
}

func TestExecute_BookingCode(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	slot := "09:00-10:00"

	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		existingBooking(date, slot, 5, uuid.New(), nil),
		existingBooking(date, slot, 6, uuid.New(), nil),
	}}
	uc := newTestUseCase(repo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), validRequest(date, "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 7, resp.QueueNo)
	assert.Equal(t, "26011207", resp.BookingCode)
	assert.Len(t, resp.BookingCode, 8)
}

func TestExecute_DuplicateTruck(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	slot := "08:00-09:00"
	supplierID := uuid.New()
	truck := ptr.Ptr("70-1234")

	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		existingBooking(date, slot, 1, supplierID, truck),
	}}
	uc := newTestUseCase(repo, &fakeNotifier{})

	req := validRequest(date, "08:00", "09:00")
	req.SupplierID = supplierID
	req.TruckRegister = truck

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_SameTruckOtherSupplierAllowed(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	slot := "08:00-09:00"
	truck := ptr.Ptr("70-1234")

	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		existingBooking(date, slot, 1, uuid.New(), truck),
	}}
	uc := newTestUseCase(repo, &fakeNotifier{})

	req := validRequest(date, "08:00", "09:00")
	req.TruckRegister = truck

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QueueNo)
}

func TestExecute_RetriesOnDuplicateQueueNo(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{createErr: []error{bookingRepo.ErrDuplicateQueueNo}}
	uc := newTestUseCase(repo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), validRequest(date, "08:00", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QueueNo)
	assert.Len(t, repo.created, 1)
}

func TestExecute_GivesUpAfterRepeatedConflicts(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{createErr: []error{
		bookingRepo.ErrDuplicateQueueNo,
		bookingRepo.ErrDuplicateQueueNo,
	}}
	uc := newTestUseCase(repo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(date, "08:00", "09:00"))
	assert.ErrorIs(t, err, bookingRepo.ErrDuplicateQueueNo)
}

func TestExecute_TriggersNotification(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	uc := newTestUseCase(&fakeBookingRepo{}, notifier)

	_, err := uc.Execute(context.Background(), validRequest(date, "08:00", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"BOOKINGS/CREATE"}, notifier.triggered)
}

func TestExecute_Validation(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeNotifier{})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"missing start time", func(r *Request) { r.StartTime = "" }},
		{"bad start time", func(r *Request) { r.StartTime = "8am" }},
		{"start after end", func(r *Request) { r.StartTime = "10:00"; r.EndTime = "09:00" }},
		{"missing supplier", func(r *Request) { r.SupplierID = uuid.Nil }},
		{"missing rubber type", func(r *Request) { r.RubberType = "" }},
		{"missing recorder", func(r *Request) { r.Recorder = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(date, "08:00", "09:00")
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_UnknownSlotFallback(t *testing.T) {
	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeNotifier{})

	// Слот вне таблицы: нумерация с 1, без лимита
	resp, err := uc.Execute(context.Background(), validRequest(date, "15:00", "16:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QueueNo)
}
