package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, onlyUnread bool) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
	GetSetting(ctx context.Context, sourceApp, actionType string) (*domain.NotificationSetting, error)
	ListSettings(ctx context.Context) ([]*domain.NotificationSetting, error)
	UpsertSetting(ctx context.Context, s *domain.NotificationSetting) (*domain.NotificationSetting, error)
	GroupMemberIDs(ctx context.Context, groupIDs []string) ([]uuid.UUID, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	ListIDsByRoles(ctx context.Context, roles []string) ([]uuid.UUID, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
