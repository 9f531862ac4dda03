package approvals

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

type recordingBookingWriter struct {
	updates map[uuid.UUID]domain.BookingUpdate
	deletes []uuid.UUID
}

func (w *recordingBookingWriter) Update(_ context.Context, id uuid.UUID, upd domain.BookingUpdate) error {
	if w.updates == nil {
		w.updates = make(map[uuid.UUID]domain.BookingUpdate)
	}
	w.updates[id] = upd
	return nil
}

func (w *recordingBookingWriter) SoftDelete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	w.deletes = append(w.deletes, id)
	return nil
}

type recordingSupplierWriter struct {
	updates map[uuid.UUID]domain.SupplierUpdate
	deletes []uuid.UUID
}

func (w *recordingSupplierWriter) Update(_ context.Context, id uuid.UUID, upd domain.SupplierUpdate) error {
	if w.updates == nil {
		w.updates = make(map[uuid.UUID]domain.SupplierUpdate)
	}
	w.updates[id] = upd
	return nil
}

func (w *recordingSupplierWriter) SoftDelete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	w.deletes = append(w.deletes, id)
	return nil
}

type recordingRubberTypeWriter struct {
	updates map[uuid.UUID]domain.RubberTypeUpdate
	deletes []uuid.UUID
}

func (w *recordingRubberTypeWriter) Update(_ context.Context, id uuid.UUID, upd domain.RubberTypeUpdate) error {
	if w.updates == nil {
		w.updates = make(map[uuid.UUID]domain.RubberTypeUpdate)
	}
	w.updates[id] = upd
	return nil
}

func (w *recordingRubberTypeWriter) SoftDelete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	w.deletes = append(w.deletes, id)
	return nil
}

func TestApplyStep_BookingUpdate(t *testing.T) {
	bookings := &recordingBookingWriter{}
	step := NewApplyStep(bookings, &recordingSupplierWriter{}, &recordingRubberTypeWriter{})
	entityID := uuid.New()

	err := step.Apply(context.Background(), &domain.ApprovalRequest{
		EntityType: domain.EntityBooking,
		ActionType: domain.ActionUpdate,
		EntityID:   entityID,
		ProposedData: domain.JSONMap{
			"rubberType": "CUP",
			"moisture":   32.5,
			"unknown":    "ignored",
		},
	}, uuid.New())

	require.NoError(t, err)
	upd := bookings.updates[entityID]
	require.NotNil(t, upd.RubberType)
	assert.Equal(t, "CUP", *upd.RubberType)
	require.NotNil(t, upd.Moisture)
	assert.Equal(t, 32.5, *upd.Moisture)
	assert.Nil(t, upd.SupplierCode)
}

func TestApplyStep_BookingDelete(t *testing.T) {
	bookings := &recordingBookingWriter{}
	step := NewApplyStep(bookings, &recordingSupplierWriter{}, &recordingRubberTypeWriter{})
	entityID := uuid.New()

	err := step.Apply(context.Background(), &domain.ApprovalRequest{
		EntityType: domain.EntityBooking,
		ActionType: domain.ActionDelete,
		EntityID:   entityID,
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{entityID}, bookings.deletes)
}

func TestApplyStep_SupplierUpdate(t *testing.T) {
	suppliers := &recordingSupplierWriter{}
	step := NewApplyStep(&recordingBookingWriter{}, suppliers, &recordingRubberTypeWriter{})
	entityID := uuid.New()

	err := step.Apply(context.Background(), &domain.ApprovalRequest{
		EntityType:   domain.EntitySupplier,
		ActionType:   domain.ActionUpdate,
		EntityID:     entityID,
		ProposedData: domain.JSONMap{"name": "New Name", "phone": "081-234-5678"},
	}, uuid.New())

	require.NoError(t, err)
	upd := suppliers.updates[entityID]
	require.NotNil(t, upd.Name)
	assert.Equal(t, "New Name", *upd.Name)
}

func TestApplyStep_RubberTypeDelete(t *testing.T) {
	rubberTypes := &recordingRubberTypeWriter{}
	step := NewApplyStep(&recordingBookingWriter{}, &recordingSupplierWriter{}, rubberTypes)
	entityID := uuid.New()

	err := step.Apply(context.Background(), &domain.ApprovalRequest{
		EntityType: domain.EntityRubberType,
		ActionType: domain.ActionDelete,
		EntityID:   entityID,
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{entityID}, rubberTypes.deletes)
}

func TestApplyStep_UnsupportedPair(t *testing.T) {
	step := NewApplyStep(&recordingBookingWriter{}, &recordingSupplierWriter{}, &recordingRubberTypeWriter{})

	err := step.Apply(context.Background(), &domain.ApprovalRequest{
		EntityType: "Invoice",
		ActionType: domain.ActionUpdate,
		EntityID:   uuid.New(),
	}, uuid.New())

	assert.ErrorIs(t, err, ErrUnsupportedApplyStep)
}
