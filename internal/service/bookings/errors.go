package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingDeleted возвращается при попытке изменить удалённое бронирование
	ErrBookingDeleted = errors.New("booking is deleted")

	// ErrAlreadyCheckedIn возвращается при повторной регистрации въезда
	ErrAlreadyCheckedIn = errors.New("booking is already checked in")

	// ErrNotCheckedIn возвращается, когда операция требует регистрации въезда
	ErrNotCheckedIn = errors.New("booking is not checked in")

	// ErrDrainNotStarted возвращается при остановке незапущенного слива
	ErrDrainNotStarted = errors.New("drain is not started")

	// ErrDrainAlreadyStarted возвращается при повторном запуске слива
	ErrDrainAlreadyStarted = errors.New("drain is already started")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
