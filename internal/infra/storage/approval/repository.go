package approval

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/dbmetrics"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/psqlbuilder"
)

// Переиспользуем интерфейс executor из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

var requestColumns = []string{
	"id",
	"request_type",
	"entity_type",
	"entity_id",
	"source_app",
	"action_type",
	"current_data",
	"proposed_data",
	"reason",
	"priority",
	"status",
	"requester_id",
	"approver_id",
	"submitted_at",
	"acted_at",
	"expires_at",
	"remark",
	"deleted_at",
	"deleted_by",
}

// Repository репозиторий заявок на согласование и журнала аудита
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория согласований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую заявку
func (r *Repository) Create(ctx context.Context, req *domain.ApprovalRequest) (*domain.ApprovalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("approval_requests").
		Columns(
			"request_type",
			"entity_type",
			"entity_id",
			"source_app",
			"action_type",
			"current_data",
			"proposed_data",
			"reason",
			"priority",
			"status",
			"requester_id",
			"expires_at",
		).
		Values(
			req.RequestType,
			req.EntityType,
			req.EntityID,
			req.SourceApp,
			req.ActionType,
			req.CurrentData,
			req.ProposedData,
			req.Reason,
			req.Priority,
			domain.ApprovalPending,
			req.RequesterID,
			req.ExpiresAt,
		).
		Suffix("RETURNING id, status, submitted_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&req.ID,
		&req.Status,
		&req.SubmittedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return req, nil
}

// GetByID получает заявку по ID (включая мягко удалённые)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("approval_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// List получает заявки по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.ApprovalFilter) ([]*domain.ApprovalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From("approval_requests")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.EntityType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"entity_type": *filter.EntityType})
	}
	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if !filter.IncludeDeleted {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"deleted_at": nil})
	}

	query, args, err := selectBuilder.
		OrderBy("submitted_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListExpired получает PENDING заявки с истёкшим сроком
func (r *Repository) ListExpired(ctx context.Context, now time.Time) ([]*domain.ApprovalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("approval_requests").
		Where(squirrel.Eq{"status": domain.ApprovalPending}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("expires_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// TransitionStatus переводит заявку из ожидаемого статуса в новый
// Условие WHERE по старому статусу исключает повторное разрешение
// конкурентными запросами: проигравший получает ErrStateConflict
func (r *Repository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.ApprovalStatus,
	approverID *uuid.UUID,
	actedAt time.Time,
	remark *string,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("approval_requests").
		Set("status", to).
		Set("acted_at", actedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if approverID != nil {
		updateBuilder = updateBuilder.Set("approver_id", *approverID)
	}
	if remark != nil {
		updateBuilder = updateBuilder.Set("remark", *remark)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStateConflict
	}

	return nil
}

// SoftDelete мягко удаляет заявку; журнал аудита не затрагивается
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("approval_requests").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("deleted_by", deletedBy).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// CreateLog добавляет запись в журнал аудита
// Журнал append-only: операций изменения и удаления у репозитория нет
func (r *Repository) CreateLog(ctx context.Context, log *domain.ApprovalLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("approval_logs").
		Columns(
			"approval_request_id",
			"action",
			"actor_id",
			"actor_name",
			"actor_role",
			"old_value",
			"new_value",
			"remark",
			"ip_address",
			"user_agent",
		).
		Values(
			log.ApprovalRequestID,
			log.Action,
			log.ActorID,
			log.ActorName,
			log.ActorRole,
			log.OldValue,
			log.NewValue,
			log.Remark,
			log.IPAddress,
			log.UserAgent,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateLog - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: CreateLog - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListLogs получает журнал аудита заявки в хронологическом порядке
func (r *Repository) ListLogs(ctx context.Context, requestID uuid.UUID) ([]*domain.ApprovalLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"approval_request_id",
		"action",
		"actor_id",
		"actor_name",
		"actor_role",
		"old_value",
		"new_value",
		"remark",
		"ip_address",
		"user_agent",
		"created_at",
	).
		From("approval_logs").
		Where(squirrel.Eq{"approval_request_id": requestID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListLogs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLogs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	logs := make([]*domain.ApprovalLog, 0)
	for rows.Next() {
		var l domain.ApprovalLog
		err := rows.Scan(
			&l.ID,
			&l.ApprovalRequestID,
			&l.Action,
			&l.ActorID,
			&l.ActorName,
			&l.ActorRole,
			&l.OldValue,
			&l.NewValue,
			&l.Remark,
			&l.IPAddress,
			&l.UserAgent,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListLogs - scan row: %v", ErrScanRow, err)
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListLogs - rows error: %v", ErrScanRow, err)
	}

	return logs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.ApprovalRequest, error) {
	var req domain.ApprovalRequest

	err := row.Scan(
		&req.ID,
		&req.RequestType,
		&req.EntityType,
		&req.EntityID,
		&req.SourceApp,
		&req.ActionType,
		&req.CurrentData,
		&req.ProposedData,
		&req.Reason,
		&req.Priority,
		&req.Status,
		&req.RequesterID,
		&req.ApproverID,
		&req.SubmittedAt,
		&req.ActedAt,
		&req.ExpiresAt,
		&req.Remark,
		&req.DeletedAt,
		&req.DeletedBy,
	)

	if err != nil {
		return nil, err
	}

	return &req, nil
}

func scanRequests(rows *sql.Rows) ([]*domain.ApprovalRequest, error) {
	requests := make([]*domain.ApprovalRequest, 0)

	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRequests - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRequests - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}
