package checkin_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный идентификатор заезда"
	msgBookingNotFound    = "заезд не найден"
	msgBookingDeleted     = "заезд удалён"
	msgAlreadyCheckedIn   = "въезд уже зарегистрирован"
	msgOperatorRequired   = "не указан оператор регистрации"
)

// CheckInRequest HTTP request model
type CheckInRequest struct {
	By string `json:"by,omitempty"` // Оператор; по умолчанию имя актора
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/checkin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CheckInRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	if req.By == "" {
		if actor := middleware.ActorFromContext(r.Context()); actor != nil {
			req.By = actor.Name()
		}
	}

	result, err := h.service.CheckIn(r.Context(), id, req.By)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrBookingDeleted):
			handlers.RespondError(w, http.StatusConflict, msgBookingDeleted)

		case errors.Is(err, bookings.ErrAlreadyCheckedIn):
			handlers.RespondError(w, http.StatusConflict, msgAlreadyCheckedIn)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgOperatorRequired)

		default:
			h.logger.Error("POST /bookings/{id}/checkin - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/checkin - Checked in: id=%s, by=%s", id, req.By)
	handlers.RespondJSON(w, http.StatusOK, result)
}
