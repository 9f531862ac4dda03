package approvals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	approvalRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/approval"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals/models"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/ptr"
)

// Действия журнала аудита
const (
	logCreated   = "CREATED"
	logApproved  = "APPROVED"
	logRejected  = "REJECTED"
	logReturned  = "RETURNED"
	logCancelled = "CANCELLED"
	logVoided    = "VOIDED"
	logExpired   = "EXPIRED"
	logDeleted   = "DELETED"
)

// systemActorID актор системных переходов (истечение срока)
const systemActorID = "SYSTEM"

// Service сервис согласования изменений
// Заявка живет по конечному автомату: из PENDING в один из терминальных
// статусов, единственный переход из терминального — APPROVED -> VOID
type Service struct {
	approvalRepo ApprovalRepository
	applier      Applier
	notifier     Notifier
	defaultTTL   time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса согласований
func NewService(
	repo ApprovalRepository,
	applier Applier,
	notifier Notifier,
	defaultTTL time.Duration,
	logger Logger,
) *Service {
	return &Service{
		approvalRepo: repo,
		applier:      applier,
		notifier:     notifier,
		defaultTTL:   defaultTTL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateRequest создает заявку на согласование
// Вызывается шлюзом согласования от имени непривилегированного актора
func (s *Service) CreateRequest(ctx context.Context, req *domain.ApprovalRequest, actor *domain.User) (*domain.ApprovalRequest, error) {
	if err := validateRequest(req); err != nil {
		s.logger.Warn("CreateRequest: validation failed: %v", err)
		return nil, err
	}

	if req.Priority == "" {
		req.Priority = domain.PriorityNormal
	}
	if req.RequestType == "" {
		req.RequestType = fmt.Sprintf("%s %s", req.ActionType, req.EntityType)
	}
	if req.ExpiresAt == nil && s.defaultTTL > 0 {
		req.ExpiresAt = ptr.Ptr(s.timeProvider.Now().Add(s.defaultTTL))
	}

	created, err := s.approvalRepo.Create(ctx, req)
	if err != nil {
		s.logger.Error("CreateRequest: failed to create request: %v", err)
		return nil, fmt.Errorf("%w: CreateRequest - repository error: %v", ErrInternal, err)
	}

	s.writeLog(ctx, created, logCreated, actor, domain.JSONMap{}, domain.JSONMap{"status": string(domain.ApprovalPending)}, nil)

	s.logger.Info("CreateRequest: request id=%s created, entity=%s/%s, action=%s, requester=%s",
		created.ID, created.EntityType, created.EntityID, created.ActionType, created.RequesterID)

	// Извещаем согласующих; инициатор исключается из рассылки
	s.notifier.Trigger(ctx, domain.SourceAppApprovals, domain.EventApprovalRequest, domain.NotificationPayload{
		Title:    "Новая заявка на согласование",
		Message:  fmt.Sprintf("Заявка «%s» ожидает решения", created.RequestType),
		Type:     domain.NotifyRequest,
		EntityID: ptr.Ptr(created.ID),
	}, ptr.Ptr(created.RequesterID))

	return created, nil
}

// GetByID получает заявку по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ApprovalResponse, error) {
	req, err := s.getRequest(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainApproval(req), nil
}

// List получает заявки по фильтру
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ApprovalListResponse, error) {
	requests, err := s.approvalRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainApprovalList(requests), nil
}

// MyRequests получает заявки, поданные пользователем
func (s *Service) MyRequests(ctx context.Context, requesterID uuid.UUID) (*models.ApprovalListResponse, error) {
	requests, err := s.approvalRepo.List(ctx, domain.ApprovalFilter{RequesterID: ptr.Ptr(requesterID)})
	if err != nil {
		s.logger.Error("MyRequests: repository error for user=%s: %v", requesterID, err)
		return nil, fmt.Errorf("%w: MyRequests - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainApprovalList(requests), nil
}

// History получает журнал аудита заявки в хронологическом порядке
func (s *Service) History(ctx context.Context, id uuid.UUID) (*models.LogListResponse, error) {
	if _, err := s.getRequest(ctx, "History", id); err != nil {
		return nil, err
	}

	logs, err := s.approvalRepo.ListLogs(ctx, id)
	if err != nil {
		s.logger.Error("History: failed to list logs for request id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: History - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainLogs(logs), nil
}

// Approve одобряет заявку и запускает шаг применения
// Сбой шага применения не откатывает решение: заявка остаётся APPROVED,
// ошибка логируется для ручного вмешательства
func (s *Service) Approve(ctx context.Context, id uuid.UUID, actor *domain.User, remark *string) (*models.ApprovalResponse, error) {
	req, err := s.resolve(ctx, "Approve", id, actor, domain.ApprovalApproved, logApproved, remark)
	if err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, req, domain.EventApprove, "Заявка одобрена",
		fmt.Sprintf("Заявка «%s» одобрена", req.RequestType), domain.NotifyApprove)
	s.notifier.Trigger(ctx, domain.SourceAppApprovals, domain.EventApprove, domain.NotificationPayload{
		Title:    "Заявка одобрена",
		Message:  fmt.Sprintf("Заявка «%s» одобрена", req.RequestType),
		Type:     domain.NotifyApprove,
		EntityID: &req.EntityID,
	}, &req.RequesterID)

	// Шаг применения выполняется после фиксации решения
	if err := s.applier.Apply(ctx, req, actorUUID(actor)); err != nil {
		s.logger.Error("Approve: apply step failed for request id=%s (entity=%s/%s, action=%s): %v",
			req.ID, req.EntityType, req.EntityID, req.ActionType, err)
	} else {
		s.logger.Info("Approve: applied request id=%s to entity=%s/%s", req.ID, req.EntityType, req.EntityID)
	}

	return models.FromDomainApproval(req), nil
}

// Reject отклоняет заявку
func (s *Service) Reject(ctx context.Context, id uuid.UUID, actor *domain.User, remark *string) (*models.ApprovalResponse, error) {
	req, err := s.resolve(ctx, "Reject", id, actor, domain.ApprovalRejected, logRejected, remark)
	if err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, req, domain.EventReject, "Заявка отклонена",
		fmt.Sprintf("Заявка «%s» отклонена", req.RequestType), domain.NotifyWarning)
	s.notifier.Trigger(ctx, domain.SourceAppApprovals, domain.EventReject, domain.NotificationPayload{
		Title:    "Заявка отклонена",
		Message:  fmt.Sprintf("Заявка «%s» отклонена", req.RequestType),
		Type:     domain.NotifyWarning,
		EntityID: &req.EntityID,
	}, &req.RequesterID)

	return models.FromDomainApproval(req), nil
}

// Return возвращает заявку инициатору на доработку
func (s *Service) Return(ctx context.Context, id uuid.UUID, actor *domain.User, remark *string) (*models.ApprovalResponse, error) {
	req, err := s.resolve(ctx, "Return", id, actor, domain.ApprovalReturned, logReturned, remark)
	if err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, req, domain.EventReject, "Заявка возвращена",
		fmt.Sprintf("Заявка «%s» возвращена на доработку", req.RequestType), domain.NotifyWarning)

	return models.FromDomainApproval(req), nil
}

// Cancel отзывает заявку; доступно только её инициатору
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor *domain.User) (*models.ApprovalResponse, error) {
	req, err := s.getRequest(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if actor == nil || actor.ID != req.RequesterID {
		s.logger.Warn("Cancel: user %s is not the requester of request id=%s", actorLabel(actor), id)
		return nil, ErrForbidden
	}

	if req.Status != domain.ApprovalPending {
		return nil, ErrNotPending
	}

	now := s.timeProvider.Now()
	err = s.approvalRepo.TransitionStatus(ctx, id, domain.ApprovalPending, domain.ApprovalCancelled, nil, now, nil)
	if err != nil {
		return nil, s.transitionError("Cancel", id, err)
	}

	s.applyTransition(req, domain.ApprovalCancelled, nil, now, nil)
	s.writeLog(ctx, req, logCancelled, actor,
		domain.JSONMap{"status": string(domain.ApprovalPending)},
		domain.JSONMap{"status": string(domain.ApprovalCancelled)}, nil)

	s.logger.Info("Cancel: request id=%s cancelled by requester", id)
	return models.FromDomainApproval(req), nil
}

// Void аннулирует ранее одобренную заявку
// Единственный разрешённый переход из терминального статуса
func (s *Service) Void(ctx context.Context, id uuid.UUID, actor *domain.User, remark *string) (*models.ApprovalResponse, error) {
	if !isElevated(actor) {
		return nil, ErrForbidden
	}

	req, err := s.getRequest(ctx, "Void", id)
	if err != nil {
		return nil, err
	}

	if req.Status != domain.ApprovalApproved {
		s.logger.Warn("Void: request id=%s is in status %s, not APPROVED", id, req.Status)
		return nil, ErrNotApproved
	}

	now := s.timeProvider.Now()
	approverID := actorIDPtr(actor)

	err = s.approvalRepo.TransitionStatus(ctx, id, domain.ApprovalApproved, domain.ApprovalVoid, approverID, now, remark)
	if err != nil {
		return nil, s.transitionError("Void", id, err)
	}

	s.applyTransition(req, domain.ApprovalVoid, approverID, now, remark)
	s.writeLog(ctx, req, logVoided, actor,
		domain.JSONMap{"status": string(domain.ApprovalApproved)},
		domain.JSONMap{"status": string(domain.ApprovalVoid)}, remark)

	s.notifyRequester(ctx, req, domain.EventReject, "Решение аннулировано",
		fmt.Sprintf("Одобрение заявки «%s» аннулировано", req.RequestType), domain.NotifyWarning)

	s.logger.Info("Void: request id=%s voided by %s", id, actorLabel(actor))
	return models.FromDomainApproval(req), nil
}

// Expire переводит просроченные PENDING заявки в EXPIRED
// Ошибка на одной заявке не прерывает обработку остальных
func (s *Service) Expire(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.approvalRepo.ListExpired(ctx, now)
	if err != nil {
		s.logger.Error("Expire: failed to list expired requests: %v", err)
		return 0, fmt.Errorf("%w: Expire - repository error: %v", ErrInternal, err)
	}

	count := 0
	for _, req := range expired {
		err := s.approvalRepo.TransitionStatus(ctx, req.ID, domain.ApprovalPending, domain.ApprovalExpired, nil, now, nil)
		if err != nil {
			// Заявку могли разрешить между выборкой и переходом
			if errors.Is(err, approvalRepo.ErrStateConflict) {
				continue
			}
			s.logger.Error("Expire: failed to expire request id=%s: %v", req.ID, err)
			continue
		}

		s.applyTransition(req, domain.ApprovalExpired, nil, now, nil)
		s.writeLog(ctx, req, logExpired, nil,
			domain.JSONMap{"status": string(domain.ApprovalPending)},
			domain.JSONMap{"status": string(domain.ApprovalExpired)}, nil)

		s.notifyRequester(ctx, req, domain.EventReject, "Срок заявки истёк",
			fmt.Sprintf("Заявка «%s» не была рассмотрена в срок", req.RequestType), domain.NotifyWarning)

		count++
	}

	if count > 0 {
		s.logger.Info("Expire: %d request(s) expired", count)
	}

	return count, nil
}

// SoftDelete мягко удаляет заявку; журнал аудита сохраняется
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID, actor *domain.User) error {
	if !isElevated(actor) {
		return ErrForbidden
	}

	req, err := s.getRequest(ctx, "SoftDelete", id)
	if err != nil {
		return err
	}

	if err := s.approvalRepo.SoftDelete(ctx, id, actorUUID(actor)); err != nil {
		if errors.Is(err, approvalRepo.ErrRequestNotFound) {
			return ErrRequestNotFound
		}
		s.logger.Error("SoftDelete: repository error for request id=%s: %v", id, err)
		return fmt.Errorf("%w: SoftDelete - repository error: %v", ErrInternal, err)
	}

	s.writeLog(ctx, req, logDeleted, actor, domain.JSONMap{}, domain.JSONMap{}, nil)
	s.logger.Info("SoftDelete: request id=%s deleted by %s", id, actorLabel(actor))

	return nil
}

// resolve общий путь разрешающих переходов из PENDING (approve/reject/return)
func (s *Service) resolve(
	ctx context.Context,
	op string,
	id uuid.UUID,
	actor *domain.User,
	to domain.ApprovalStatus,
	logAction string,
	remark *string,
) (*domain.ApprovalRequest, error) {
	if !isElevated(actor) {
		s.logger.Warn("%s: user %s has no approval rights", op, actorLabel(actor))
		return nil, ErrForbidden
	}

	req, err := s.getRequest(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if req.Status != domain.ApprovalPending {
		s.logger.Warn("%s: request id=%s is in status %s, not PENDING", op, id, req.Status)
		return nil, ErrNotPending
	}

	now := s.timeProvider.Now()
	approverID := actorIDPtr(actor)

	err = s.approvalRepo.TransitionStatus(ctx, id, domain.ApprovalPending, to, approverID, now, remark)
	if err != nil {
		return nil, s.transitionError(op, id, err)
	}

	s.applyTransition(req, to, approverID, now, remark)
	s.writeLog(ctx, req, logAction, actor,
		domain.JSONMap{"status": string(domain.ApprovalPending)},
		domain.JSONMap{"status": string(to)}, remark)

	s.logger.Info("%s: request id=%s -> %s by %s", op, id, to, actorLabel(actor))
	return req, nil
}

func (s *Service) getRequest(ctx context.Context, op string, id uuid.UUID) (*domain.ApprovalRequest, error) {
	req, err := s.approvalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, approvalRepo.ErrRequestNotFound) {
			s.logger.Warn("%s: request id=%s not found", op, id)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("%s: repository error for request id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return req, nil
}

func (s *Service) transitionError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, approvalRepo.ErrStateConflict) {
		s.logger.Warn("%s: concurrent resolution of request id=%s", op, id)
		return ErrNotPending
	}
	s.logger.Error("%s: failed to transition request id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// applyTransition отражает выполненный переход в загруженной заявке
func (s *Service) applyTransition(req *domain.ApprovalRequest, to domain.ApprovalStatus, approverID *uuid.UUID, actedAt time.Time, remark *string) {
	req.Status = to
	req.ActedAt = &actedAt
	if approverID != nil {
		req.ApproverID = approverID
	}
	if remark != nil {
		req.Remark = remark
	}
}

// writeLog пишет запись аудита; сбой записи не прерывает операцию
func (s *Service) writeLog(ctx context.Context, req *domain.ApprovalRequest, action string, actor *domain.User, oldValue, newValue domain.JSONMap, remark *string) {
	log := &domain.ApprovalLog{
		ApprovalRequestID: req.ID,
		Action:            action,
		ActorID:           systemActorID,
		ActorName:         systemActorID,
		ActorRole:         systemActorID,
		OldValue:          oldValue,
		NewValue:          newValue,
		Remark:            remark,
	}

	if actor != nil {
		log.ActorID = actor.ID.String()
		log.ActorName = actor.Name()
		log.ActorRole = actor.Role
	}

	if err := s.approvalRepo.CreateLog(ctx, log); err != nil {
		s.logger.Error("writeLog: failed to write audit log for request id=%s, action=%s: %v", req.ID, action, err)
	}
}

func (s *Service) notifyRequester(ctx context.Context, req *domain.ApprovalRequest, actionType, title, message string, notifType domain.NotificationType) {
	s.notifier.NotifyUser(ctx, req.RequesterID, domain.SourceAppApprovals, actionType, domain.NotificationPayload{
		Title:    title,
		Message:  message,
		Type:     notifType,
		EntityID: ptr.Ptr(req.ID),
	})
}

func validateRequest(req *domain.ApprovalRequest) error {
	switch req.EntityType {
	case domain.EntityBooking, domain.EntitySupplier, domain.EntityRubberType:
	default:
		return fmt.Errorf("%w: unknown entity type %q", ErrInvalidInput, req.EntityType)
	}

	switch req.ActionType {
	case domain.ActionUpdate, domain.ActionDelete:
	default:
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidInput, req.ActionType)
	}

	if req.EntityID == uuid.Nil {
		return fmt.Errorf("%w: entityID is required", ErrInvalidInput)
	}
	if req.RequesterID == uuid.Nil {
		return fmt.Errorf("%w: requesterID is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}

// isElevated возвращает true для акторов с правом согласования
// Отсутствующий актор считается системным вызовом
func isElevated(actor *domain.User) bool {
	return actor == nil || actor.CanApproveBookings()
}

func actorLabel(actor *domain.User) string {
	if actor == nil {
		return systemActorID
	}
	return actor.ID.String()
}

func actorUUID(actor *domain.User) uuid.UUID {
	if actor == nil {
		return uuid.Nil
	}
	return actor.ID
}

func actorIDPtr(actor *domain.User) *uuid.UUID {
	if actor == nil {
		return nil
	}
	return ptr.Ptr(actor.ID)
}
