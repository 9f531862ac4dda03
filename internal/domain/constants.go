package domain

// Форматы дат и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD

	// BookingCodeDateFormat формат датной части кода бронирования (UTC)
	// Ширина 6 символов зафиксирована: внешние потребители ищут по префиксу дня
	BookingCodeDateFormat = "060102"
)

// Источники событий для маршрутизации уведомлений
const (
	SourceAppBookings  = "BOOKINGS"
	SourceAppApprovals = "APPROVALS"
)

// Типы событий для маршрутизации уведомлений
const (
	EventCreate          = "CREATE"
	EventUpdate          = "UPDATE"
	EventDelete          = "DELETE"
	EventApprove         = "APPROVE"
	EventReject          = "REJECT"
	EventApprovalRequest = "APPROVAL_REQUEST"
)

// Ограничения входных данных
const (
	MaxReasonLength = 500
	MaxRemarkLength = 500
)
