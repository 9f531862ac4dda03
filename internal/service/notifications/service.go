package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	notificationRepo "github.com/apiwat1229/ServiceHub-sub002/internal/infra/storage/notification"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/notifications/models"
)

// Service сервис уведомлений
// Системная рассылка маршрутизируется правилами (source_app, action_type):
// правило определяет роли и группы получателей, неактивное правило или его
// отсутствие гасит событие целиком
type Service struct {
	notificationRepo NotificationRepository
	userRepo         UserRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	notificationRepo NotificationRepository,
	userRepo UserRepository,
	logger Logger,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// Trigger рассылает системное уведомление по правилу маршрутизации
// Рассылка best-effort: ошибки логируются и не возвращаются вызывающему,
// доменная операция не зависит от доставки уведомлений
func (s *Service) Trigger(ctx context.Context, sourceApp, actionType string, payload domain.NotificationPayload, excludeUserID *uuid.UUID) {
	setting, err := s.notificationRepo.GetSetting(ctx, sourceApp, actionType)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrSettingNotFound) {
			s.logger.Info("Trigger: no setting for %s/%s, event dropped", sourceApp, actionType)
			return
		}
		s.logger.Error("Trigger: failed to get setting for %s/%s: %v", sourceApp, actionType, err)
		return
	}

	if !setting.IsActive {
		s.logger.Info("Trigger: setting %s/%s is inactive, event dropped", sourceApp, actionType)
		return
	}

	recipients := s.resolveRecipients(ctx, setting, excludeUserID)
	if len(recipients) == 0 {
		s.logger.Info("Trigger: no recipients for %s/%s", sourceApp, actionType)
		return
	}

	delivered := 0
	for _, userID := range recipients {
		_, err := s.notificationRepo.Create(ctx, &domain.Notification{
			UserID:     userID,
			Title:      payload.Title,
			Message:    payload.Message,
			Type:       payload.Type,
			SourceApp:  sourceApp,
			ActionType: actionType,
			EntityID:   payload.EntityID,
			ActionURL:  payload.ActionURL,
		})
		if err != nil {
			s.logger.Error("Trigger: failed to create notification for user=%s: %v", userID, err)
			continue
		}
		delivered++
	}

	s.logger.Info("Trigger: %s/%s delivered to %d of %d recipient(s)", sourceApp, actionType, delivered, len(recipients))
}

// NotifyUser создает уведомление конкретному пользователю, минуя правила
// Используется для извещения инициатора заявки о решении
func (s *Service) NotifyUser(ctx context.Context, userID uuid.UUID, sourceApp, actionType string, payload domain.NotificationPayload) {
	_, err := s.notificationRepo.Create(ctx, &domain.Notification{
		UserID:     userID,
		Title:      payload.Title,
		Message:    payload.Message,
		Type:       payload.Type,
		SourceApp:  sourceApp,
		ActionType: actionType,
		EntityID:   payload.EntityID,
		ActionURL:  payload.ActionURL,
	})
	if err != nil {
		s.logger.Error("NotifyUser: failed to create notification for user=%s: %v", userID, err)
	}
}

// List получает уведомления пользователя с числом непрочитанных
func (s *Service) List(ctx context.Context, userID uuid.UUID, onlyUnread bool) (*models.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, onlyUnread)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("List: failed to count unread for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, models.FromDomainNotification(n))
	}

	return &models.NotificationListResponse{
		Notifications: result,
		Total:         len(result),
		Unread:        unread,
	}, nil
}

// MarkRead помечает уведомление пользователя прочитанным
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%s: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	return nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("MarkAllRead: repository error for user=%s: %v", userID, err)
		return 0, fmt.Errorf("%w: MarkAllRead - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkAllRead: %d notification(s) marked read for user=%s", count, userID)
	return count, nil
}

// ListSettings получает все правила маршрутизации
func (s *Service) ListSettings(ctx context.Context) (*models.SettingListResponse, error) {
	settings, err := s.notificationRepo.ListSettings(ctx)
	if err != nil {
		s.logger.Error("ListSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettingList(settings), nil
}

// UpsertSetting создает или обновляет правило маршрутизации
func (s *Service) UpsertSetting(ctx context.Context, req *models.SettingRequest) (*models.SettingResponse, error) {
	if req.SourceApp == "" {
		return nil, fmt.Errorf("%w: sourceApp is required", ErrInvalidInput)
	}
	if req.ActionType == "" {
		return nil, fmt.Errorf("%w: actionType is required", ErrInvalidInput)
	}

	setting, err := s.notificationRepo.UpsertSetting(ctx, &domain.NotificationSetting{
		SourceApp:       req.SourceApp,
		ActionType:      req.ActionType,
		IsActive:        req.IsActive,
		RecipientRoles:  req.RecipientRoles,
		RecipientGroups: req.RecipientGroups,
	})
	if err != nil {
		s.logger.Error("UpsertSetting: repository error for %s/%s: %v", req.SourceApp, req.ActionType, err)
		return nil, fmt.Errorf("%w: UpsertSetting - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertSetting: %s/%s, active=%t, roles=%d, groups=%d",
		setting.SourceApp, setting.ActionType, setting.IsActive, len(setting.RecipientRoles), len(setting.RecipientGroups))

	return models.FromDomainSetting(setting), nil
}

// resolveRecipients собирает получателей правила: пользователи с перечисленными
// ролями плюс участники групп, без дублей, без исключённого пользователя
func (s *Service) resolveRecipients(ctx context.Context, setting *domain.NotificationSetting, excludeUserID *uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	recipients := make([]uuid.UUID, 0)

	add := func(ids []uuid.UUID) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			if excludeUserID != nil && id == *excludeUserID {
				continue
			}
			seen[id] = true
			recipients = append(recipients, id)
		}
	}

	if len(setting.RecipientRoles) > 0 {
		ids, err := s.userRepo.ListIDsByRoles(ctx, setting.RecipientRoles)
		if err != nil {
			s.logger.Error("resolveRecipients: failed to list users by roles %v: %v", setting.RecipientRoles, err)
		} else {
			add(ids)
		}
	}

	if len(setting.RecipientGroups) > 0 {
		ids, err := s.notificationRepo.GroupMemberIDs(ctx, setting.RecipientGroups)
		if err != nil {
			s.logger.Error("resolveRecipients: failed to list group members %v: %v", setting.RecipientGroups, err)
		} else {
			add(ids)
		}
	}

	return recipients
}
