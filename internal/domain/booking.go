package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/pkg/types"
)

// Booking представляет один заезд грузовика с каучуком
// Номер очереди (QueueNo) уникален в пределах (дата, слот)
type Booking struct {
	ID          uuid.UUID
	Date        time.Time // Календарный день, время не используется
	StartTime   types.TimeString
	EndTime     types.TimeString
	Slot        string // "HH:MM-HH:MM", производное от StartTime-EndTime
	QueueNo     int
	BookingCode string // YYMMDD + 2-значный QueueNo, ровно 8 символов

	SupplierID   uuid.UUID
	SupplierCode string
	SupplierName string

	TruckType     *string
	TruckRegister *string

	RubberType string
	Recorder   string

	// Данные приёмки сырья
	LotNo        *string
	Moisture     *float64
	DRCEst       *float64
	DRCRequested *float64
	DRCActual    *float64

	// Отметки жизненного цикла заезда
	CheckinAt    *time.Time
	CheckinBy    *string
	StartDrainAt *time.Time
	StopDrainAt  *time.Time
	DrainNote    *string

	WeightIn    *float64
	WeightInAt  *time.Time
	WeightInBy  *string
	WeightOut   *float64
	WeightOutAt *time.Time
	WeightOutBy *string

	DeletedAt *time.Time
	DeletedBy *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted возвращает true, если бронирование мягко удалено
func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}

// IsCheckedIn возвращает true, если грузовик уже зарегистрирован на въезде
func (b *Booking) IsCheckedIn() bool {
	return b.CheckinAt != nil
}

// IsDraining возвращает true, если слив начат и ещё не остановлен
func (b *Booking) IsDraining() bool {
	return b.StartDrainAt != nil && b.StopDrainAt == nil
}

// BookingUpdate изменяемые поля бронирования
// Используется и для прямого обновления, и как proposedData заявки на согласование
type BookingUpdate struct {
	SupplierID    *uuid.UUID
	SupplierCode  *string
	SupplierName  *string
	TruckType     *string
	TruckRegister *string
	RubberType    *string
	Recorder      *string
	LotNo         *string
	Moisture      *float64
	DRCEst        *float64
	DRCRequested  *float64
	DRCActual     *float64
}

// BookingFilter фильтр для выборки бронирований
type BookingFilter struct {
	Date           *time.Time // Конкретный день
	Slot           *string    // Конкретный слот
	CodePrefix     *string    // Префикс booking_code (YYMMDD — выборка за день)
	IncludeDeleted bool       // Включать ли мягко удалённые записи
}

// SlotStats статистика по одному слоту за день
type SlotStats struct {
	Slot      string
	Count     int
	CheckedIn int
	Bookings  []*Booking
}

// DayStats статистика бронирований за день
type DayStats struct {
	Total     int
	CheckedIn int
	Pending   int
	Slots     []SlotStats
}
