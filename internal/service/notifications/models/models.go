package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// NotificationResponse ответ с данными уведомления
type NotificationResponse struct {
	ID         uuid.UUID      `json:"id"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Type       string         `json:"type"`
	SourceApp  string         `json:"sourceApp"`
	ActionType string         `json:"actionType"`
	EntityID   *uuid.UUID     `json:"entityId,omitempty"`
	ActionURL  *string        `json:"actionUrl,omitempty"`
	Metadata   domain.JSONMap `json:"metadata,omitempty"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// NotificationListResponse список уведомлений пользователя
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int                     `json:"total"`
	Unread        int                     `json:"unread"`
}

// SettingRequest запрос на создание или изменение правила маршрутизации
type SettingRequest struct {
	SourceApp       string   `json:"sourceApp"`
	ActionType      string   `json:"actionType"`
	IsActive        bool     `json:"isActive"`
	RecipientRoles  []string `json:"recipientRoles"`
	RecipientGroups []string `json:"recipientGroups"`
}

// SettingResponse правило маршрутизации уведомлений
type SettingResponse struct {
	ID              uuid.UUID `json:"id"`
	SourceApp       string    `json:"sourceApp"`
	ActionType      string    `json:"actionType"`
	IsActive        bool      `json:"isActive"`
	RecipientRoles  []string  `json:"recipientRoles"`
	RecipientGroups []string  `json:"recipientGroups"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SettingListResponse список правил маршрутизации
type SettingListResponse struct {
	Settings []*SettingResponse `json:"settings"`
	Total    int                `json:"total"`
}

// FromDomainNotification конвертирует domain.Notification в response
func FromDomainNotification(n *domain.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       string(n.Type),
		SourceApp:  n.SourceApp,
		ActionType: n.ActionType,
		EntityID:   n.EntityID,
		ActionURL:  n.ActionURL,
		Metadata:   n.Metadata,
		Status:     string(n.Status),
		CreatedAt:  n.CreatedAt,
	}
}

// FromDomainSetting конвертирует domain.NotificationSetting в response
func FromDomainSetting(s *domain.NotificationSetting) *SettingResponse {
	return &SettingResponse{
		ID:              s.ID,
		SourceApp:       s.SourceApp,
		ActionType:      s.ActionType,
		IsActive:        s.IsActive,
		RecipientRoles:  s.RecipientRoles,
		RecipientGroups: s.RecipientGroups,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainSettingList конвертирует список правил в response
func FromDomainSettingList(settings []*domain.NotificationSetting) *SettingListResponse {
	result := make([]*SettingResponse, 0, len(settings))
	for _, s := range settings {
		result = append(result, FromDomainSetting(s))
	}
	return &SettingListResponse{
		Settings: result,
		Total:    len(result),
	}
}
