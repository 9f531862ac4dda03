package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType тип уведомления
type NotificationType string

const (
	NotifyInfo    NotificationType = "INFO"
	NotifyWarning NotificationType = "WARNING"
	NotifyError   NotificationType = "ERROR"
	NotifyRequest NotificationType = "REQUEST"
	NotifyApprove NotificationType = "APPROVE"
)

// NotificationStatus статус прочтения уведомления
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

// Notification уведомление пользователя
type Notification struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Title      string
	Message    string
	Type       NotificationType
	SourceApp  string
	ActionType string
	EntityID   *uuid.UUID
	ActionURL  *string
	Metadata   JSONMap
	Status     NotificationStatus
	CreatedAt  time.Time
}

// NotificationSetting правило маршрутизации системных уведомлений
// Уникально по паре (SourceApp, ActionType); IsActive выключает событие целиком
type NotificationSetting struct {
	ID              uuid.UUID
	SourceApp       string
	ActionType      string
	IsActive        bool
	RecipientRoles  []string // Имена ролей
	RecipientGroups []string // ID групп уведомлений
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NotificationGroup именованная группа получателей
type NotificationGroup struct {
	ID          uuid.UUID
	Name        string
	Description *string
	MemberIDs   []uuid.UUID
	CreatedAt   time.Time
}

// NotificationPayload содержимое системного уведомления для рассылки
type NotificationPayload struct {
	Title     string
	Message   string
	Type      NotificationType
	EntityID  *uuid.UUID
	ActionURL *string
}
