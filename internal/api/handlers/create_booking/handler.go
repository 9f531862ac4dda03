package create_booking

import (
	"errors"
	"net/http"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	createBooking "github.com/apiwat1229/ServiceHub-sub002/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPayload     = "некорректные данные заезда, проверьте дату, время и поставщика"
	msgSlotFull           = "в выбранном слоте не осталось мест"
	msgDuplicateBooking   = "заезд этого поставщика с этим госномером уже записан в слот"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: date=%s, slot=%s-%s", req.Date, req.StartTime, req.EndTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: supplier=%s, truck=%v", req.SupplierCode, req.TruckRegister)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPayload)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: supplier=%s, error=%v", req.SupplierCode, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: id=%s, code=%s, queue=%d",
		result.ID, result.BookingCode, result.QueueNo)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
