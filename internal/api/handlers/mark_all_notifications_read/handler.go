package mark_all_notifications_read

import (
	"net/http"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
)

const msgActorRequired = "требуется идентификатор пользователя"

// MarkAllReadResponse количество отмеченных уведомлений
type MarkAllReadResponse struct {
	Marked int `json:"marked"`
}

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

// Handle POST /api/v1/notifications/read-all
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	marked, err := h.service.MarkAllRead(r.Context(), actor.ID)
	if err != nil {
		h.logger.Error("POST /notifications/read-all - Failed: user=%s, error=%v", actor.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /notifications/read-all - Marked: user=%s, count=%d", actor.ID, marked)
	handlers.RespondJSON(w, http.StatusOK, &MarkAllReadResponse{Marked: marked})
}
