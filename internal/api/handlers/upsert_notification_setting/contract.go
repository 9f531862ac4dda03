package upsert_notification_setting

import (
	"context"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications/models"
)

type NotificationService interface {
	UpsertSetting(ctx context.Context, req *models.SettingRequest) (*models.SettingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
