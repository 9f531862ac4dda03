package list_notifications

import (
	"net/http"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
)

const msgActorRequired = "требуется идентификатор пользователя"

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

// Handle GET /api/v1/notifications?unread=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	onlyUnread := r.URL.Query().Get("unread") == "true"

	result, err := h.service.List(r.Context(), actor.ID, onlyUnread)
	if err != nil {
		h.logger.Error("GET /notifications - Failed: user=%s, error=%v", actor.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
