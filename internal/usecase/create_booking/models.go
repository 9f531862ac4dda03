package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Date      time.Time        // Дата заезда (без времени)
	StartTime types.TimeString // Начало слота (например, "08:00")
	EndTime   types.TimeString // Конец слота (например, "09:00")

	SupplierID   uuid.UUID // ID поставщика
	SupplierCode string    // Код поставщика (денормализация)
	SupplierName string    // Название поставщика (денормализация)

	TruckType     *string // Тип грузовика (опционально)
	TruckRegister *string // Госномер (опционально)

	RubberType string // Вид каучука
	Recorder   string // Кто оформил заезд

	LotNo        *string  // Номер партии (опционально)
	Moisture     *float64 // Влажность, % (опционально)
	DRCEst       *float64 // Оценка DRC, % (опционально)
	DRCRequested *float64 // Запрошенный DRC, % (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          uuid.UUID        // ID созданного бронирования
	Date        time.Time        // Дата заезда
	StartTime   types.TimeString // Начало слота
	EndTime     types.TimeString // Конец слота
	Slot        string           // Ключ слота "HH:MM-HH:MM"
	QueueNo     int              // Выданный номер очереди
	BookingCode string           // Код бронирования YYMMDD + NN

	SupplierID   uuid.UUID
	SupplierCode string
	SupplierName string

	TruckType     *string
	TruckRegister *string

	RubberType string
	Recorder   string

	LotNo        *string
	Moisture     *float64
	DRCEst       *float64
	DRCRequested *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
