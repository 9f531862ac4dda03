package upsert_notification_setting

import (
	"errors"
	"net/http"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSetting     = "sourceApp и actionType обязательны"
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

// Handle PUT /api/v1/notifications/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SettingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertSetting(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, notifications.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSetting)

		default:
			h.logger.Error("PUT /notifications/settings - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /notifications/settings - Upserted: source=%s, action=%s", result.SourceApp, result.ActionType)
	handlers.RespondJSON(w, http.StatusOK, result)
}
