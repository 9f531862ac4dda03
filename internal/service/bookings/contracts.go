package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.BookingUpdate) error
	CheckIn(ctx context.Context, id uuid.UUID, at time.Time, by string) error
	StartDrain(ctx context.Context, id uuid.UUID, at time.Time) error
	StopDrain(ctx context.Context, id uuid.UUID, at time.Time, note *string) error
	WeightIn(ctx context.Context, id uuid.UUID, weight float64, at time.Time, by string) error
	WeightOut(ctx context.Context, id uuid.UUID, weight float64, at time.Time, by string) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// ApprovalGate интерфейс постановки изменения в очередь согласования
type ApprovalGate interface {
	CreateRequest(ctx context.Context, req *domain.ApprovalRequest, actor *domain.User) (*domain.ApprovalRequest, error)
}

// Notifier интерфейс рассылки системных уведомлений
type Notifier interface {
	Trigger(ctx context.Context, sourceApp, actionType string, payload domain.NotificationPayload, excludeUserID *uuid.UUID)
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
