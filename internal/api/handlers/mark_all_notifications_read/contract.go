package mark_all_notifications_read

import (
	"context"

	"github.com/google/uuid"
)

type NotificationService interface {
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
