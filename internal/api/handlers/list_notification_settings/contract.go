package list_notification_settings

import (
	"context"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications/models"
)

type NotificationService interface {
	ListSettings(ctx context.Context) (*models.SettingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
