package booking_stats

import (
	"context"
	"time"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings/models"
)

type BookingService interface {
	Stats(ctx context.Context, date time.Time) (*models.DayStatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
