package weight_in

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
	msgNotCheckedIn       = "въезд ещё не зарегистрирован"
	msgInvalidWeight      = "вес должен быть положительным числом"
)

// WeightInRequest HTTP request model
type WeightInRequest struct {
	Weight float64 `json:"weight"`
	By     string  `json:"by,omitempty"`
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

// Handle POST /api/v1/bookings/{id}/weight-in
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req WeightInRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.By == "" {
		if actor := middleware.ActorFromContext(r.Context()); actor != nil {
			req.By = actor.Name()
		}
	}

	result, err := h.service.WeightIn(r.Context(), id, req.Weight, req.By)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrBookingDeleted):
			handlers.RespondError(w, http.StatusConflict, msgBookingDeleted)

		case errors.Is(err, bookings.ErrNotCheckedIn):
			handlers.RespondError(w, http.StatusConflict, msgNotCheckedIn)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidWeight)

		default:
			h.logger.Error("POST /bookings/{id}/weight-in - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/weight-in - Recorded: id=%s, weight=%.2f", id, req.Weight)
	handlers.RespondJSON(w, http.StatusOK, result)
}
