package delete_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings/models"
)

type BookingService interface {
	Remove(ctx context.Context, id uuid.UUID, actor *domain.User, reason string) (*models.GateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
