package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// Request модели

// ListRequest запрос на выборку бронирований
type ListRequest struct {
	Date           *time.Time // Конкретный день (опционально)
	Slot           *string    // Конкретный слот (опционально)
	CodePrefix     *string    // Префикс кода бронирования (опционально)
	IncludeDeleted bool       // Включить мягко удалённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() domain.BookingFilter {
	return domain.BookingFilter{
		Date:           r.Date,
		Slot:           r.Slot,
		CodePrefix:     r.CodePrefix,
		IncludeDeleted: r.IncludeDeleted,
	}
}

// UpdateRequest запрос на изменение бронирования
// nil-поля не изменяются
type UpdateRequest struct {
	SupplierID    *uuid.UUID `json:"supplierId,omitempty"`
	SupplierCode  *string    `json:"supplierCode,omitempty"`
	SupplierName  *string    `json:"supplierName,omitempty"`
	TruckType     *string    `json:"truckType,omitempty"`
	TruckRegister *string    `json:"truckRegister,omitempty"`
	RubberType    *string    `json:"rubberType,omitempty"`
	Recorder      *string    `json:"recorder,omitempty"`
	LotNo         *string    `json:"lotNo,omitempty"`
	Moisture      *float64   `json:"moisture,omitempty"`
	DRCEst        *float64   `json:"drcEst,omitempty"`
	DRCRequested  *float64   `json:"drcRequested,omitempty"`
	DRCActual     *float64   `json:"drcActual,omitempty"`

	Reason string `json:"reason,omitempty"` // Обоснование для заявки на согласование
}

// ToDomainUpdate конвертирует request в domain изменение
func (r *UpdateRequest) ToDomainUpdate() domain.BookingUpdate {
	return domain.BookingUpdate{
		SupplierID:    r.SupplierID,
		SupplierCode:  r.SupplierCode,
		SupplierName:  r.SupplierName,
		TruckType:     r.TruckType,
		TruckRegister: r.TruckRegister,
		RubberType:    r.RubberType,
		Recorder:      r.Recorder,
		LotNo:         r.LotNo,
		Moisture:      r.Moisture,
		DRCEst:        r.DRCEst,
		DRCRequested:  r.DRCRequested,
		DRCActual:     r.DRCActual,
	}
}

// IsEmpty возвращает true, если изменять нечего
func (r *UpdateRequest) IsEmpty() bool {
	return r.SupplierID == nil && r.SupplierCode == nil && r.SupplierName == nil &&
		r.TruckType == nil && r.TruckRegister == nil && r.RubberType == nil &&
		r.Recorder == nil && r.LotNo == nil && r.Moisture == nil &&
		r.DRCEst == nil && r.DRCRequested == nil && r.DRCActual == nil
}

// ProposedMap собирает proposedData заявки: только изменяемые поля
func (r *UpdateRequest) ProposedMap() domain.JSONMap {
	m := domain.JSONMap{}
	putString := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	putFloat := func(key string, v *float64) {
		if v != nil {
			m[key] = *v
		}
	}

	if r.SupplierID != nil {
		m["supplierId"] = r.SupplierID.String()
	}
	putString("supplierCode", r.SupplierCode)
	putString("supplierName", r.SupplierName)
	putString("truckType", r.TruckType)
	putString("truckRegister", r.TruckRegister)
	putString("rubberType", r.RubberType)
	putString("recorder", r.Recorder)
	putString("lotNo", r.LotNo)
	putFloat("moisture", r.Moisture)
	putFloat("drcEst", r.DRCEst)
	putFloat("drcRequested", r.DRCRequested)
	putFloat("drcActual", r.DRCActual)

	return m
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`      // "2026-01-12"
	StartTime   string    `json:"startTime"` // "08:00"
	EndTime     string    `json:"endTime"`   // "09:00"
	Slot        string    `json:"slot"`      // "08:00-09:00"
	QueueNo     int       `json:"queueNo"`
	BookingCode string    `json:"bookingCode"`

	SupplierID   uuid.UUID `json:"supplierId"`
	SupplierCode string    `json:"supplierCode"`
	SupplierName string    `json:"supplierName"`

	TruckType     *string `json:"truckType,omitempty"`
	TruckRegister *string `json:"truckRegister,omitempty"`

	RubberType string `json:"rubberType"`
	Recorder   string `json:"recorder"`

	LotNo        *string  `json:"lotNo,omitempty"`
	Moisture     *float64 `json:"moisture,omitempty"`
	DRCEst       *float64 `json:"drcEst,omitempty"`
	DRCRequested *float64 `json:"drcRequested,omitempty"`
	DRCActual    *float64 `json:"drcActual,omitempty"`

	CheckinAt    *time.Time `json:"checkinAt,omitempty"`
	CheckinBy    *string    `json:"checkinBy,omitempty"`
	StartDrainAt *time.Time `json:"startDrainAt,omitempty"`
	StopDrainAt  *time.Time `json:"stopDrainAt,omitempty"`
	DrainNote    *string    `json:"drainNote,omitempty"`

	WeightIn    *float64   `json:"weightIn,omitempty"`
	WeightInAt  *time.Time `json:"weightInAt,omitempty"`
	WeightInBy  *string    `json:"weightInBy,omitempty"`
	WeightOut   *float64   `json:"weightOut,omitempty"`
	WeightOutAt *time.Time `json:"weightOutAt,omitempty"`
	WeightOutBy *string    `json:"weightOutBy,omitempty"`
	NetWeight   *float64   `json:"netWeight,omitempty"` // WeightIn - WeightOut

	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// GateResponse результат операции, проходящей через согласование
// Либо изменение применено сразу, либо создана заявка PENDING
type GateResponse struct {
	Applied    bool             `json:"applied"`
	Booking    *BookingResponse `json:"booking,omitempty"`
	ApprovalID *uuid.UUID       `json:"approvalId,omitempty"`
	Status     string           `json:"status,omitempty"` // "PENDING_APPROVAL" при постановке в очередь
}

// SlotStatsResponse статистика по одному слоту
type SlotStatsResponse struct {
	Slot      string             `json:"slot"`
	Count     int                `json:"count"`
	CheckedIn int                `json:"checkedIn"`
	Limit     *int               `json:"limit,omitempty"` // nil для безлимитных слотов
	Bookings  []*BookingResponse `json:"bookings"`
}

// DayStatsResponse статистика бронирований за день
type DayStatsResponse struct {
	Date      string               `json:"date"`
	Total     int                  `json:"total"`
	CheckedIn int                  `json:"checkedIn"`
	Pending   int                  `json:"pending"`
	Slots     []*SlotStatsResponse `json:"slots"`
}

// Конвертеры domain -> response

// FromDomainBooking конвертирует domain.Booking в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		Date:        b.Date.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		Slot:        b.Slot,
		QueueNo:     b.QueueNo,
		BookingCode: b.BookingCode,

		SupplierID:   b.SupplierID,
		SupplierCode: b.SupplierCode,
		SupplierName: b.SupplierName,

		TruckType:     b.TruckType,
		TruckRegister: b.TruckRegister,

		RubberType: b.RubberType,
		Recorder:   b.Recorder,

		LotNo:        b.LotNo,
		Moisture:     b.Moisture,
		DRCEst:       b.DRCEst,
		DRCRequested: b.DRCRequested,
		DRCActual:    b.DRCActual,

		CheckinAt:    b.CheckinAt,
		CheckinBy:    b.CheckinBy,
		StartDrainAt: b.StartDrainAt,
		StopDrainAt:  b.StopDrainAt,
		DrainNote:    b.DrainNote,

		WeightIn:    b.WeightIn,
		WeightInAt:  b.WeightInAt,
		WeightInBy:  b.WeightInBy,
		WeightOut:   b.WeightOut,
		WeightOutAt: b.WeightOutAt,
		WeightOutBy: b.WeightOutBy,

		DeletedAt: b.DeletedAt,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.WeightIn != nil && b.WeightOut != nil {
		net := *b.WeightIn - *b.WeightOut
		resp.NetWeight = &net
	}

	return resp
}

// FromDomainBookingList конвертирует список domain.Booking в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}

// BookingSnapshot собирает currentData заявки из текущего состояния
func BookingSnapshot(b *domain.Booking) domain.JSONMap {
	m := domain.JSONMap{
		"id":           b.ID.String(),
		"date":         b.Date.Format(domain.DateFormat),
		"startTime":    b.StartTime.String(),
		"endTime":      b.EndTime.String(),
		"slot":         b.Slot,
		"queueNo":      b.QueueNo,
		"bookingCode":  b.BookingCode,
		"supplierId":   b.SupplierID.String(),
		"supplierCode": b.SupplierCode,
		"supplierName": b.SupplierName,
		"rubberType":   b.RubberType,
		"recorder":     b.Recorder,
	}

	putString := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	putFloat := func(key string, v *float64) {
		if v != nil {
			m[key] = *v
		}
	}

	putString("truckType", b.TruckType)
	putString("truckRegister", b.TruckRegister)
	putString("lotNo", b.LotNo)
	putFloat("moisture", b.Moisture)
	putFloat("drcEst", b.DRCEst)
	putFloat("drcRequested", b.DRCRequested)
	putFloat("drcActual", b.DRCActual)

	return m
}
