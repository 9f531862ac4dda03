package checkin_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings/models"
)

type BookingService interface {
	CheckIn(ctx context.Context, id uuid.UUID, by string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
