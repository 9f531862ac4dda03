package create_booking

import "errors"

var (
	// ErrSlotFull возвращается, когда в слоте не осталось мест
	ErrSlotFull = errors.New("create_booking: slot is full")

	// ErrDuplicateBooking возвращается при повторном заезде того же
	// поставщика с тем же госномером в тот же день и слот
	ErrDuplicateBooking = errors.New("create_booking: duplicate booking for supplier and truck")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
