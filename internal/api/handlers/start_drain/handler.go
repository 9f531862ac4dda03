package start_drain

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings"
)

const (
	msgInvalidBookingID    = "некорректный идентификатор заезда"
	msgBookingNotFound     = "заезд не найден"
	msgBookingDeleted      = "заезд удалён"
	msgNotCheckedIn        = "въезд ещё не зарегистрирован"
	msgDrainAlreadyStarted = "слив уже начат"
)

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

// Handle POST /api/v1/bookings/{id}/drain/start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.StartDrain(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrBookingDeleted):
			handlers.RespondError(w, http.StatusConflict, msgBookingDeleted)

		case errors.Is(err, bookings.ErrNotCheckedIn):
			handlers.RespondError(w, http.StatusConflict, msgNotCheckedIn)

		case errors.Is(err, bookings.ErrDrainAlreadyStarted):
			handlers.RespondError(w, http.StatusConflict, msgDrainAlreadyStarted)

		default:
			h.logger.Error("POST /bookings/{id}/drain/start - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/drain/start - Drain started: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}
