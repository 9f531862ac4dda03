package approvals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// ApprovalRepository интерфейс репозитория заявок и журнала аудита
type ApprovalRepository interface {
	Create(ctx context.Context, req *domain.ApprovalRequest) (*domain.ApprovalRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error)
	List(ctx context.Context, filter domain.ApprovalFilter) ([]*domain.ApprovalRequest, error)
	ListExpired(ctx context.Context, now time.Time) ([]*domain.ApprovalRequest, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.ApprovalStatus, approverID *uuid.UUID, actedAt time.Time, remark *string) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
	CreateLog(ctx context.Context, log *domain.ApprovalLog) error
	ListLogs(ctx context.Context, requestID uuid.UUID) ([]*domain.ApprovalLog, error)
}

// Applier интерфейс шага применения согласованного изменения
type Applier interface {
	Apply(ctx context.Context, req *domain.ApprovalRequest, approverID uuid.UUID) error
}

// Notifier интерфейс рассылки уведомлений
type Notifier interface {
	Trigger(ctx context.Context, sourceApp, actionType string, payload domain.NotificationPayload, excludeUserID *uuid.UUID)
	NotifyUser(ctx context.Context, userID uuid.UUID, sourceApp, actionType string, payload domain.NotificationPayload)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
