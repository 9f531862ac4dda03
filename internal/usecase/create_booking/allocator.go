package create_booking

import (
	"fmt"
	"time"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// nextQueueNo выдает наименьший свободный номер очереди начиная со
// стартового значения слота. Освобождённые номера (после удаления
// бронирования) выдаются повторно раньше следующего по порядку
func nextQueueNo(cfg domain.SlotConfig, bookings []*domain.Booking) int {
	taken := make(map[int]bool, len(bookings))
	for _, b := range bookings {
		taken[b.QueueNo] = true
	}

	queueNo := cfg.Start
	for taken[queueNo] {
		queueNo++
	}

	return queueNo
}

// checkCapacity проверяет, остались ли места в слоте
func checkCapacity(cfg domain.SlotConfig, bookings []*domain.Booking) error {
	if cfg.IsUnlimited() {
		return nil
	}

	if len(bookings) >= *cfg.Limit {
		return ErrSlotFull
	}

	return nil
}

// checkDuplicate запрещает повторный заезд поставщика с тем же
// госномером в пределах одного дня и слота
func checkDuplicate(req *Request, bookings []*domain.Booking) error {
	if req.TruckRegister == nil {
		return nil
	}

	for _, b := range bookings {
		if b.SupplierID != req.SupplierID {
			continue
		}
		if b.TruckRegister != nil && *b.TruckRegister == *req.TruckRegister {
			return ErrDuplicateBooking
		}
	}

	return nil
}

// buildBookingCode собирает код бронирования: дата в UTC как YYMMDD
// плюс двузначный номер очереди. Ширина 8 символов зафиксирована,
// внешние потребители ищут коды по префиксу дня
func buildBookingCode(date time.Time, queueNo int) string {
	return date.UTC().Format(domain.BookingCodeDateFormat) + fmt.Sprintf("%02d", queueNo)
}
