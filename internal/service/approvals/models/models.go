package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// ListRequest запрос на выборку заявок
type ListRequest struct {
	Status         *string
	EntityType     *string
	RequesterID    *uuid.UUID
	IncludeDeleted bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() domain.ApprovalFilter {
	filter := domain.ApprovalFilter{
		RequesterID:    r.RequesterID,
		IncludeDeleted: r.IncludeDeleted,
	}

	if r.Status != nil {
		status := domain.ApprovalStatus(*r.Status)
		filter.Status = &status
	}
	if r.EntityType != nil {
		entityType := domain.EntityType(*r.EntityType)
		filter.EntityType = &entityType
	}

	return filter
}

// ApprovalResponse ответ с данными заявки
type ApprovalResponse struct {
	ID          uuid.UUID `json:"id"`
	RequestType string    `json:"requestType"`
	EntityType  string    `json:"entityType"`
	EntityID    uuid.UUID `json:"entityId"`
	SourceApp   string    `json:"sourceApp"`
	ActionType  string    `json:"actionType"`

	CurrentData  domain.JSONMap `json:"currentData"`
	ProposedData domain.JSONMap `json:"proposedData"`

	Reason   string `json:"reason"`
	Priority string `json:"priority"`
	Status   string `json:"status"`

	RequesterID uuid.UUID  `json:"requesterId"`
	ApproverID  *uuid.UUID `json:"approverId,omitempty"`

	SubmittedAt time.Time  `json:"submittedAt"`
	ActedAt     *time.Time `json:"actedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Remark      *string    `json:"remark,omitempty"`

	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// ApprovalListResponse список заявок
type ApprovalListResponse struct {
	Requests []*ApprovalResponse `json:"requests"`
	Total    int                 `json:"total"`
}

// LogResponse запись журнала аудита
type LogResponse struct {
	ID        uuid.UUID      `json:"id"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actorId"`
	ActorName string         `json:"actorName"`
	ActorRole string         `json:"actorRole"`
	OldValue  domain.JSONMap `json:"oldValue"`
	NewValue  domain.JSONMap `json:"newValue"`
	Remark    *string        `json:"remark,omitempty"`
	IPAddress *string        `json:"ipAddress,omitempty"`
	UserAgent *string        `json:"userAgent,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// LogListResponse журнал аудита заявки
type LogListResponse struct {
	Logs  []*LogResponse `json:"logs"`
	Total int            `json:"total"`
}

// FromDomainApproval конвертирует domain.ApprovalRequest в response
func FromDomainApproval(r *domain.ApprovalRequest) *ApprovalResponse {
	return &ApprovalResponse{
		ID:          r.ID,
		RequestType: r.RequestType,
		EntityType:  string(r.EntityType),
		EntityID:    r.EntityID,
		SourceApp:   r.SourceApp,
		ActionType:  string(r.ActionType),

		CurrentData:  r.CurrentData,
		ProposedData: r.ProposedData,

		Reason:   r.Reason,
		Priority: string(r.Priority),
		Status:   string(r.Status),

		RequesterID: r.RequesterID,
		ApproverID:  r.ApproverID,

		SubmittedAt: r.SubmittedAt,
		ActedAt:     r.ActedAt,
		ExpiresAt:   r.ExpiresAt,
		Remark:      r.Remark,

		DeletedAt: r.DeletedAt,
	}
}

// FromDomainApprovalList конвертирует список заявок в response
func FromDomainApprovalList(requests []*domain.ApprovalRequest) *ApprovalListResponse {
	result := make([]*ApprovalResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, FromDomainApproval(r))
	}
	return &ApprovalListResponse{
		Requests: result,
		Total:    len(result),
	}
}

// FromDomainLogs конвертирует журнал аудита в response
func FromDomainLogs(logs []*domain.ApprovalLog) *LogListResponse {
	result := make([]*LogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, &LogResponse{
			ID:        l.ID,
			Action:    l.Action,
			ActorID:   l.ActorID,
			ActorName: l.ActorName,
			ActorRole: l.ActorRole,
			OldValue:  l.OldValue,
			NewValue:  l.NewValue,
			Remark:    l.Remark,
			IPAddress: l.IPAddress,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}
	return &LogListResponse{
		Logs:  result,
		Total: len(result),
	}
}
