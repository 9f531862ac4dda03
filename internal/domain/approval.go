package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus статус заявки на согласование
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "PENDING"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
	ApprovalReturned  ApprovalStatus = "RETURNED"
	ApprovalCancelled ApprovalStatus = "CANCELLED"
	ApprovalVoid      ApprovalStatus = "VOID"
	ApprovalExpired   ApprovalStatus = "EXPIRED"
)

// IsTerminal возвращает true, если из статуса нет переходов,
// кроме APPROVED -> VOID
func (s ApprovalStatus) IsTerminal() bool {
	return s != ApprovalPending
}

// EntityType тип сущности, на которую направлена заявка
type EntityType string

const (
	EntityBooking    EntityType = "Booking"
	EntitySupplier   EntityType = "Supplier"
	EntityRubberType EntityType = "RubberType"
)

// ActionType тип предлагаемого изменения
type ActionType string

const (
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// ApprovalPriority приоритет заявки
type ApprovalPriority string

const (
	PriorityLow    ApprovalPriority = "LOW"
	PriorityNormal ApprovalPriority = "NORMAL"
	PriorityHigh   ApprovalPriority = "HIGH"
	PriorityUrgent ApprovalPriority = "URGENT"
)

// ApprovalRequest заявка на согласование изменения сущности
// CurrentData хранит снимок до изменения, ProposedData — предлагаемое изменение
type ApprovalRequest struct {
	ID          uuid.UUID
	RequestType string // Отображаемое название заявки
	EntityType  EntityType
	EntityID    uuid.UUID
	SourceApp   string
	ActionType  ActionType

	CurrentData  JSONMap
	ProposedData JSONMap

	Reason   string
	Priority ApprovalPriority
	Status   ApprovalStatus

	RequesterID uuid.UUID
	ApproverID  *uuid.UUID

	SubmittedAt time.Time
	ActedAt     *time.Time
	ExpiresAt   *time.Time
	Remark      *string

	DeletedAt *time.Time
	DeletedBy *uuid.UUID
}

// IsDeleted возвращает true, если заявка мягко удалена
func (r *ApprovalRequest) IsDeleted() bool {
	return r.DeletedAt != nil
}

// ApprovalLog запись аудита заявки
// Журнал append-only: записи никогда не изменяются и не удаляются,
// независимо от мягкого удаления самой заявки
type ApprovalLog struct {
	ID                uuid.UUID
	ApprovalRequestID uuid.UUID
	Action            string // CREATED, APPROVED, REJECTED, RETURNED, CANCELLED, VOIDED, EXPIRED, DELETED
	ActorID           string // ID пользователя или "SYSTEM"
	ActorName         string
	ActorRole         string
	OldValue          JSONMap
	NewValue          JSONMap
	Remark            *string
	IPAddress         *string
	UserAgent         *string
	CreatedAt         time.Time
}

// ApprovalFilter фильтр для выборки заявок
type ApprovalFilter struct {
	Status         *ApprovalStatus
	EntityType     *EntityType
	RequesterID    *uuid.UUID
	IncludeDeleted bool
}
