package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	createBooking "github.com/apiwat1229/ServiceHub-sub002/internal/usecase/create_booking"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date      string `json:"date"`      // "2026-01-12"
	StartTime string `json:"startTime"` // "08:00"
	EndTime   string `json:"endTime"`   // "09:00"

	SupplierID   string `json:"supplierId"`
	SupplierCode string `json:"supplierCode"`
	SupplierName string `json:"supplierName"`

	TruckType     *string `json:"truckType,omitempty"`
	TruckRegister *string `json:"truckRegister,omitempty"`

	RubberType string `json:"rubberType"`
	Recorder   string `json:"recorder"`

	LotNo        *string  `json:"lotNo,omitempty"`
	Moisture     *float64 `json:"moisture,omitempty"`
	DRCEst       *float64 `json:"drcEst,omitempty"`
	DRCRequested *float64 `json:"drcRequested,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Slot        string    `json:"slot"`
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

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	supplierID, err := uuid.Parse(r.SupplierID)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,

		SupplierID:   supplierID,
		SupplierCode: r.SupplierCode,
		SupplierName: r.SupplierName,

		TruckType:     r.TruckType,
		TruckRegister: r.TruckRegister,

		RubberType: r.RubberType,
		Recorder:   r.Recorder,

		LotNo:        r.LotNo,
		Moisture:     r.Moisture,
		DRCEst:       r.DRCEst,
		DRCRequested: r.DRCRequested,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		Date:        resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Slot:        resp.Slot,
		QueueNo:     resp.QueueNo,
		BookingCode: resp.BookingCode,

		SupplierID:   resp.SupplierID,
		SupplierCode: resp.SupplierCode,
		SupplierName: resp.SupplierName,

		TruckType:     resp.TruckType,
		TruckRegister: resp.TruckRegister,

		RubberType: resp.RubberType,
		Recorder:   resp.Recorder,

		LotNo:        resp.LotNo,
		Moisture:     resp.Moisture,
		DRCEst:       resp.DRCEst,
		DRCRequested: resp.DRCRequested,

		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
