package mark_notification_read

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications"
)

const (
	msgInvalidNotificationID = "некорректный идентификатор уведомления"
	msgNotificationNotFound  = "уведомление не найдено"
	msgActorRequired         = "требуется идентификатор пользователя"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/notifications/{id}/read
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	if err := h.service.MarkRead(r.Context(), id, actor.ID); err != nil {
		switch {
		case errors.Is(err, notifications.ErrNotificationNotFound):
			handlers.RespondNotFound(w, msgNotificationNotFound)

		default:
			h.logger.Error("POST /notifications/{id}/read - Failed: id=%s, user=%s, error=%v", id, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondNoContent(w)
}
