package booking_stats

import (
	"net/http"
	"time"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

const (
	msgMissingDate = "параметр date обязателен"
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/stats?date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		h.logger.Warn("GET /bookings/stats - Invalid date %q: %v", raw, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Stats(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /bookings/stats - Failed to get stats for date=%s: %v", raw, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
