package stop_drain

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный идентификатор заезда"
	msgBookingNotFound    = "заезд не найден"
	msgBookingDeleted     = "заезд удалён"
	msgDrainNotStarted    = "слив ещё не начат"
)

// StopDrainRequest HTTP request model
type StopDrainRequest struct {
	Note *string `json:"note,omitempty"`
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

// Handle POST /api/v1/bookings/{id}/drain/stop
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req StopDrainRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.service.StopDrain(r.Context(), id, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrBookingDeleted):
			handlers.RespondError(w, http.StatusConflict, msgBookingDeleted)

		case errors.Is(err, bookings.ErrDrainNotStarted):
			handlers.RespondError(w, http.StatusConflict, msgDrainNotStarted)

		default:
			h.logger.Error("POST /bookings/{id}/drain/stop - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/drain/stop - Drain stopped: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}
