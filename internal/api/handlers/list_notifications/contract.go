package list_notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, onlyUnread bool) (*models.NotificationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
