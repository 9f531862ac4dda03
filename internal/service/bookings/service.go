package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	bookingRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/booking"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/bookings/models"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/ptr"
)

// Service сервис для работы с бронированиями
// Изменение и удаление проходят через шлюз согласования: пользователи
// без права прямого изменения получают заявку PENDING вместо результата
type Service struct {
	bookingRepo  BookingRepository
	approvalGate ApprovalGate
	notifier     Notifier
	slotTable    domain.SlotTable
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	approvalGate ApprovalGate,
	notifier Notifier,
	slotTable domain.SlotTable,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		approvalGate: approvalGate,
		notifier:     notifier,
		slotTable:    slotTable,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования по фильтру
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.BookingListResponse, error) {
	bookings, err := s.bookingRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Stats собирает статистику заездов за день, разбитую по слотам
// Слоты следуют порядку таблицы; слоты вне таблицы добавляются в конец
func (s *Service) Stats(ctx context.Context, date time.Time) (*models.DayStatsResponse, error) {
	bookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{Date: ptr.Ptr(date)})
	if err != nil {
		s.logger.Error("Stats: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}

	bySlot := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		bySlot[b.Slot] = append(bySlot[b.Slot], b)
	}

	resp := &models.DayStatsResponse{
		Date:  date.Format(domain.DateFormat),
		Slots: make([]*models.SlotStatsResponse, 0, len(s.slotTable.Order)),
	}

	appendSlot := func(slot string) {
		slotBookings := bySlot[slot]
		delete(bySlot, slot)

		cfg := s.slotTable.Resolve(slot, date)
		stats := &models.SlotStatsResponse{
			Slot:     slot,
			Count:    len(slotBookings),
			Limit:    cfg.Limit,
			Bookings: make([]*models.BookingResponse, 0, len(slotBookings)),
		}

		for _, b := range slotBookings {
			if b.IsCheckedIn() {
				stats.CheckedIn++
			}
			stats.Bookings = append(stats.Bookings, models.FromDomainBooking(b))
		}

		resp.Total += stats.Count
		resp.CheckedIn += stats.CheckedIn
		resp.Slots = append(resp.Slots, stats)
	}

	for _, slot := range s.slotTable.Order {
		appendSlot(slot)
	}
	for _, b := range bookings {
		if _, ok := bySlot[b.Slot]; ok {
			appendSlot(b.Slot)
		}
	}

	resp.Pending = resp.Total - resp.CheckedIn

	s.logger.Info("Stats: date=%s, total=%d, checkedIn=%d", resp.Date, resp.Total, resp.CheckedIn)
	return resp, nil
}

// CheckIn регистрирует въезд грузовика
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID, by string) (*models.BookingResponse, error) {
	if by == "" {
		return nil, fmt.Errorf("%w: checkin operator is required", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "CheckIn", id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() {
		return nil, ErrBookingDeleted
	}
	if booking.IsCheckedIn() {
		s.logger.Warn("CheckIn: booking id=%s is already checked in", id)
		return nil, ErrAlreadyCheckedIn
	}

	now := s.timeProvider.Now()
	if err := s.bookingRepo.CheckIn(ctx, id, now, by); err != nil {
		s.logger.Error("CheckIn: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: CheckIn - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CheckIn: booking id=%s checked in by %s", id, by)
	return s.GetByID(ctx, id)
}

// StartDrain отмечает начало слива
func (s *Service) StartDrain(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "StartDrain", id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() {
		return nil, ErrBookingDeleted
	}
	if !booking.IsCheckedIn() {
		return nil, ErrNotCheckedIn
	}
	if booking.StartDrainAt != nil {
		return nil, ErrDrainAlreadyStarted
	}

	if err := s.bookingRepo.StartDrain(ctx, id, s.timeProvider.Now()); err != nil {
		s.logger.Error("StartDrain: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: StartDrain - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("StartDrain: booking id=%s", id)
	return s.GetByID(ctx, id)
}

// StopDrain отмечает окончание слива
func (s *Service) StopDrain(ctx context.Context, id uuid.UUID, note *string) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "StopDrain", id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() {
		return nil, ErrBookingDeleted
	}
	if !booking.IsDraining() {
		return nil, ErrDrainNotStarted
	}

	if err := s.bookingRepo.StopDrain(ctx, id, s.timeProvider.Now(), note); err != nil {
		s.logger.Error("StopDrain: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: StopDrain - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("StopDrain: booking id=%s", id)
	return s.GetByID(ctx, id)
}

// WeightIn фиксирует вес на въезде
func (s *Service) WeightIn(ctx context.Context, id uuid.UUID, weight float64, by string) (*models.BookingResponse, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	if by == "" {
		return nil, fmt.Errorf("%w: operator is required", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "WeightIn", id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() {
		return nil, ErrBookingDeleted
	}
	if !booking.IsCheckedIn() {
		return nil, ErrNotCheckedIn
	}

	if err := s.bookingRepo.WeightIn(ctx, id, weight, s.timeProvider.Now(), by); err != nil {
		s.logger.Error("WeightIn: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: WeightIn - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("WeightIn: booking id=%s, weight=%.1f", id, weight)
	return s.GetByID(ctx, id)
}

// WeightOut фиксирует вес на выезде
func (s *Service) WeightOut(ctx context.Context, id uuid.UUID, weight float64, by string) (*models.BookingResponse, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	if by == "" {
		return nil, fmt.Errorf("%w: operator is required", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "WeightOut", id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() {
		return nil, ErrBookingDeleted
	}
	if booking.WeightIn == nil {
		return nil, fmt.Errorf("%w: weight-in must be recorded first", ErrInvalidInput)
	}

	if err := s.bookingRepo.WeightOut(ctx, id, weight, s.timeProvider.Now(), by); err != nil {
		s.logger.Error("WeightOut: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: WeightOut - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("WeightOut: booking id=%s, weight=%.1f", id, weight)
	return s.GetByID(ctx, id)
}

// Update изменяет бронирование через шлюз согласования
// Пользователи с правом прямого изменения (и системные вызовы без актора)
// применяют изменение сразу; остальные создают заявку PENDING,
// бронирование при этом не меняется
func (s *Service) Update(ctx context.Context, id uuid.UUID, actor *domain.User, req *models.UpdateRequest) (*models.GateResponse, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() {
		return nil, ErrBookingDeleted
	}

	if isElevated(actor) {
		if err := s.bookingRepo.Update(ctx, id, req.ToDomainUpdate()); err != nil {
			s.logger.Error("Update: repository error for booking id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("Update: booking id=%s updated directly by %s", id, actorLabel(actor))

		s.notifier.Trigger(ctx, domain.SourceAppBookings, domain.EventUpdate, domain.NotificationPayload{
			Title:    "Заезд изменён",
			Message:  fmt.Sprintf("Заезд %s изменён", booking.BookingCode),
			Type:     domain.NotifyInfo,
			EntityID: ptr.Ptr(id),
		}, actorID(actor))

		updated, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &models.GateResponse{Applied: true, Booking: updated}, nil
	}

	// Непривилегированный актор: изменение откладывается до согласования
	approval, err := s.approvalGate.CreateRequest(ctx, &domain.ApprovalRequest{
		RequestType:  string(domain.ActionUpdate),
		EntityType:   domain.EntityBooking,
		EntityID:     id,
		SourceApp:    domain.SourceAppBookings,
		ActionType:   domain.ActionUpdate,
		CurrentData:  models.BookingSnapshot(booking),
		ProposedData: req.ProposedMap(),
		Reason:       req.Reason,
		RequesterID:  actor.ID,
	}, actor)
	if err != nil {
		s.logger.Error("Update: failed to create approval request for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - failed to create approval request: %v", ErrInternal, err)
	}

	s.logger.Info("Update: booking id=%s queued for approval, request id=%s, requester=%s",
		id, approval.ID, actor.ID)

	return &models.GateResponse{
		Applied:    false,
		ApprovalID: ptr.Ptr(approval.ID),
		Status:     "PENDING_APPROVAL",
	}, nil
}

// Remove удаляет бронирование через шлюз согласования
// Прямое удаление мягкое: номер очереди освобождается для повторной выдачи
func (s *Service) Remove(ctx context.Context, id uuid.UUID, actor *domain.User, reason string) (*models.GateResponse, error) {
	booking, err := s.getBooking(ctx, "Remove", id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() {
		return nil, ErrBookingDeleted
	}

	if isElevated(actor) {
		deletedBy := uuid.Nil
		if actor != nil {
			deletedBy = actor.ID
		}

		if err := s.bookingRepo.SoftDelete(ctx, id, deletedBy); err != nil {
			s.logger.Error("Remove: repository error for booking id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("Remove: booking id=%s deleted directly by %s", id, actorLabel(actor))

		s.notifier.Trigger(ctx, domain.SourceAppBookings, domain.EventDelete, domain.NotificationPayload{
			Title:    "Заезд удалён",
			Message:  fmt.Sprintf("Заезд %s удалён, очередь %d освобождена", booking.BookingCode, booking.QueueNo),
			Type:     domain.NotifyWarning,
			EntityID: ptr.Ptr(id),
		}, actorID(actor))

		return &models.GateResponse{Applied: true}, nil
	}

	approval, err := s.approvalGate.CreateRequest(ctx, &domain.ApprovalRequest{
		RequestType:  string(domain.ActionDelete),
		EntityType:   domain.EntityBooking,
		EntityID:     id,
		SourceApp:    domain.SourceAppBookings,
		ActionType:   domain.ActionDelete,
		CurrentData:  models.BookingSnapshot(booking),
		ProposedData: domain.JSONMap{},
		Reason:       reason,
		RequesterID:  actor.ID,
	}, actor)
	if err != nil {
		s.logger.Error("Remove: failed to create approval request for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Remove - failed to create approval request: %v", ErrInternal, err)
	}

	s.logger.Info("Remove: booking id=%s queued for approval, request id=%s, requester=%s",
		id, approval.ID, actor.ID)

	return &models.GateResponse{
		Applied:    false,
		ApprovalID: ptr.Ptr(approval.ID),
		Status:     "PENDING_APPROVAL",
	}, nil
}

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return booking, nil
}

// isElevated возвращает true для акторов с правом прямого изменения
// Отсутствующий актор считается системным вызовом и не ограничивается
func isElevated(actor *domain.User) bool {
	return actor == nil || actor.CanApproveBookings()
}

func actorLabel(actor *domain.User) string {
	if actor == nil {
		return "SYSTEM"
	}
	return actor.ID.String()
}

func actorID(actor *domain.User) *uuid.UUID {
	if actor == nil {
		return nil
	}
	return ptr.Ptr(actor.ID)
}
