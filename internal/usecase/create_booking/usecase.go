package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	bookingRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/booking"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/ptr"
)

// pgSerializationFailure код ошибки Postgres при конфликте сериализуемых транзакций
const pgSerializationFailure = "40001"

// maxAllocateAttempts число попыток выдачи номера очереди
// Повтор покрывает конкурентную выдачу того же номера двумя транзакциями
const maxAllocateAttempts = 2

// UseCase use case для создания бронирования с выдачей номера очереди
type UseCase struct {
	bookingRepo  BookingRepository
	slotTable    domain.SlotTable
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotTable domain.SlotTable,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotTable:    slotTable,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Номер очереди выдаётся в сериализуемой транзакции с блокировкой
// бронирований слота; уникальный индекс (date, slot, queue_no) страхует
// от двойной выдачи, конфликт вызывает однократный повтор
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: supplier=%s, date=%s, slot=%s-%s",
		req.SupplierCode, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	slot := domain.SlotKey(req.StartTime, req.EndTime)

	// 2. Эффективная конфигурация слота на эту дату (учитывает субботнее правило)
	cfg := uc.slotTable.Resolve(slot, req.Date)

	// 3. Выдача номера и запись, с повтором при конкурентном конфликте
	var result *domain.Booking
	var err error

	for attempt := 1; attempt <= maxAllocateAttempts; attempt++ {
		result, err = uc.allocate(ctx, req, slot, cfg)
		if err == nil {
			break
		}

		if attempt < maxAllocateAttempts && isRetryable(err) {
			uc.logger.Warn("CreateBooking: allocation conflict on attempt %d, retrying: %v", attempt, err)
			continue
		}

		return nil, err
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%s, code=%s, queue=%d",
		result.ID, result.BookingCode, result.QueueNo)

	// 4. Рассылаем уведомление о новом заезде (best-effort, после фиксации)
	uc.notifier.Trigger(ctx, domain.SourceAppBookings, domain.EventCreate, domain.NotificationPayload{
		Title:    "Новый заезд",
		Message:  fmt.Sprintf("Заезд %s: %s, очередь %d", result.BookingCode, result.SupplierName, result.QueueNo),
		Type:     domain.NotifyInfo,
		EntityID: ptr.Ptr(result.ID),
	}, nil)

	return toResponse(result), nil
}

// allocate выполняет одну попытку выдачи номера очереди в сериализуемой транзакции
func (uc *UseCase) allocate(ctx context.Context, req *Request, slot string, cfg domain.SlotConfig) (*domain.Booking, error) {
	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Все активные бронирования дня и слота с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.List(txCtx, domain.BookingFilter{
			Date: ptr.Ptr(req.Date),
			Slot: ptr.Ptr(slot),
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list bookings: %v", err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		// 2. Запрет повторного заезда того же грузовика
		if err := checkDuplicate(req, bookings); err != nil {
			uc.logger.Warn("CreateBooking: duplicate booking, supplier=%s truck=%v", req.SupplierCode, req.TruckRegister)
			return err
		}

		// 3. Проверка вместимости слота
		if err := checkCapacity(cfg, bookings); err != nil {
			uc.logger.Warn("CreateBooking: slot %s is full (%d taken)", slot, len(bookings))
			return err
		}

		// 4. Наименьший свободный номер очереди
		queueNo := nextQueueNo(cfg, bookings)

		booking := &domain.Booking{
			Date:         req.Date,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			Slot:         slot,
			QueueNo:      queueNo,
			BookingCode:  buildBookingCode(req.Date, queueNo),
			SupplierID:   req.SupplierID,
			SupplierCode: req.SupplierCode,
			SupplierName: req.SupplierName,

			TruckType:     req.TruckType,
			TruckRegister: req.TruckRegister,

			RubberType: req.RubberType,
			Recorder:   req.Recorder,

			LotNo:        req.LotNo,
			Moisture:     req.Moisture,
			DRCEst:       req.DRCEst,
			DRCRequested: req.DRCRequested,
		}

		// 5. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateQueueNo) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// isRetryable возвращает true для ошибок, вызванных конкурентной
// выдачей номера: нарушение уникального индекса либо конфликт
// сериализуемых транзакций
func isRetryable(err error) bool {
	if errors.Is(err, bookingRepo.ErrDuplicateQueueNo) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgSerializationFailure {
		return true
	}

	return false
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		Date:        b.Date,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Slot:        b.Slot,
		QueueNo:     b.QueueNo,
		BookingCode: b.BookingCode,

		SupplierID:   b.SupplierID,
		SupplierCode: b.SupplierCode,
		SupplierName: b.SupplierName,

		TruckType:     b.TruckType,
		TruckRegister: b.TruckRegister,

		RubberType: b.RubberType,
		Recorder:   b.Recorder,

		LotNo:        b.LotNo,
		Moisture:     b.Moisture,
		DRCEst:       b.DRCEst,
		DRCRequested: b.DRCRequested,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
