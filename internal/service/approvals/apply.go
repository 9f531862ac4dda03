package approvals

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// BookingWriter интерфейс применения изменений к бронированиям
type BookingWriter interface {
	Update(ctx context.Context, id uuid.UUID, upd domain.BookingUpdate) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// SupplierWriter интерфейс применения изменений к поставщикам
type SupplierWriter interface {
	Update(ctx context.Context, id uuid.UUID, upd domain.SupplierUpdate) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// RubberTypeWriter интерфейс применения изменений к видам каучука
type RubberTypeWriter interface {
	Update(ctx context.Context, id uuid.UUID, upd domain.RubberTypeUpdate) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// ApplyStep применяет согласованное изменение к целевой сущности
// Диспетчеризация по паре (EntityType, ActionType); пары без шага
// применения дают ErrUnsupportedApplyStep
type ApplyStep struct {
	bookings    BookingWriter
	suppliers   SupplierWriter
	rubberTypes RubberTypeWriter
}

// NewApplyStep создает новый шаг применения
func NewApplyStep(bookings BookingWriter, suppliers SupplierWriter, rubberTypes RubberTypeWriter) *ApplyStep {
	return &ApplyStep{
		bookings:    bookings,
		suppliers:   suppliers,
		rubberTypes: rubberTypes,
	}
}

// Apply применяет согласованное изменение заявки
func (a *ApplyStep) Apply(ctx context.Context, req *domain.ApprovalRequest, approverID uuid.UUID) error {
	switch {
	case req.EntityType == domain.EntityBooking && req.ActionType == domain.ActionUpdate:
		return a.bookings.Update(ctx, req.EntityID, bookingUpdateFromMap(req.ProposedData))

	case req.EntityType == domain.EntityBooking && req.ActionType == domain.ActionDelete:
		return a.bookings.SoftDelete(ctx, req.EntityID, approverID)

	case req.EntityType == domain.EntitySupplier && req.ActionType == domain.ActionUpdate:
		return a.suppliers.Update(ctx, req.EntityID, supplierUpdateFromMap(req.ProposedData))

	case req.EntityType == domain.EntitySupplier && req.ActionType == domain.ActionDelete:
		return a.suppliers.SoftDelete(ctx, req.EntityID, approverID)

	case req.EntityType == domain.EntityRubberType && req.ActionType == domain.ActionUpdate:
		return a.rubberTypes.Update(ctx, req.EntityID, rubberTypeUpdateFromMap(req.ProposedData))

	case req.EntityType == domain.EntityRubberType && req.ActionType == domain.ActionDelete:
		return a.rubberTypes.SoftDelete(ctx, req.EntityID, approverID)

	default:
		return fmt.Errorf("%w: entity=%s, action=%s", ErrUnsupportedApplyStep, req.EntityType, req.ActionType)
	}
}

// bookingUpdateFromMap восстанавливает изменение бронирования из proposedData
// Неизвестные ключи игнорируются; числа JSON приходят как float64
func bookingUpdateFromMap(m domain.JSONMap) domain.BookingUpdate {
	return domain.BookingUpdate{
		SupplierID:    mapUUID(m, "supplierId"),
		SupplierCode:  mapString(m, "supplierCode"),
		SupplierName:  mapString(m, "supplierName"),
		TruckType:     mapString(m, "truckType"),
		TruckRegister: mapString(m, "truckRegister"),
		RubberType:    mapString(m, "rubberType"),
		Recorder:      mapString(m, "recorder"),
		LotNo:         mapString(m, "lotNo"),
		Moisture:      mapFloat(m, "moisture"),
		DRCEst:        mapFloat(m, "drcEst"),
		DRCRequested:  mapFloat(m, "drcRequested"),
		DRCActual:     mapFloat(m, "drcActual"),
	}
}

func supplierUpdateFromMap(m domain.JSONMap) domain.SupplierUpdate {
	return domain.SupplierUpdate{
		Code:    mapString(m, "code"),
		Name:    mapString(m, "name"),
		Phone:   mapString(m, "phone"),
		Address: mapString(m, "address"),
	}
}

func rubberTypeUpdateFromMap(m domain.JSONMap) domain.RubberTypeUpdate {
	return domain.RubberTypeUpdate{
		Code: mapString(m, "code"),
		Name: mapString(m, "name"),
	}
}

func mapString(m domain.JSONMap, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func mapFloat(m domain.JSONMap, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}

func mapUUID(m domain.JSONMap, key string) *uuid.UUID {
	v, ok := m[key].(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
