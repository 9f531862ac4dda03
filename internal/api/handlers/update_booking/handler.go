package update_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный идентификатор заезда"
	msgBookingNotFound    = "заезд не найден"
	msgBookingDeleted     = "заезд удалён"
	msgNothingToUpdate    = "не указано ни одного изменяемого поля"
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

// Handle PATCH /api/v1/bookings/{id}
// Для пользователей без права прямого изменения вместо результата
// возвращается заявка PENDING_APPROVAL со статусом 202
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	result, err := h.service.Update(r.Context(), id, actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrBookingDeleted):
			handlers.RespondError(w, http.StatusConflict, msgBookingDeleted)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgNothingToUpdate)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Applied {
		handlers.RespondJSON(w, http.StatusOK, result)
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Update queued for approval: id=%s, approval=%s", id, result.ApprovalID)
	handlers.RespondJSON(w, http.StatusAccepted, result)
}
