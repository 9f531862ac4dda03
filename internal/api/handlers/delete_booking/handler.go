package delete_booking

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
	msgInvalidBookingID = "некорректный идентификатор заезда"
	msgBookingNotFound  = "заезд не найден"
	msgBookingDeleted   = "заезд уже удалён"
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

// Handle DELETE /api/v1/bookings/{id}?reason=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	reason := r.URL.Query().Get("reason")

	result, err := h.service.Remove(r.Context(), id, actor, reason)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrBookingDeleted):
			handlers.RespondError(w, http.StatusConflict, msgBookingDeleted)

		default:
			h.logger.Error("DELETE /bookings/{id} - Failed to delete booking: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Applied {
		handlers.RespondNoContent(w)
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Delete queued for approval: id=%s, approval=%s", id, result.ApprovalID)
	handlers.RespondJSON(w, http.StatusAccepted, result)
}
