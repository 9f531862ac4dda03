package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/dbmetrics"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/psqlbuilder"
)

// Переиспользуем интерфейс executor из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

var notificationColumns = []string{
	"id",
	"user_id",
	"title",
	"message",
	"type",
	"source_app",
	"action_type",
	"entity_id",
	"action_url",
	"metadata",
	"status",
	"created_at",
}

// Repository репозиторий уведомлений и правил их маршрутизации
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает уведомление для пользователя
func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	metadata := n.Metadata
	if metadata == nil {
		metadata = domain.JSONMap{}
	}

	query, args, err := psqlbuilder.Insert("notifications").
		Columns(
			"user_id",
			"title",
			"message",
			"type",
			"source_app",
			"action_type",
			"entity_id",
			"action_url",
			"metadata",
		).
		Values(
			n.UserID,
			n.Title,
			n.Message,
			n.Type,
			n.SourceApp,
			n.ActionType,
			n.EntityID,
			n.ActionURL,
			metadata,
		).
		Suffix("RETURNING id, status, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &n.Status, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return n, nil
}

// ListByUser получает уведомления пользователя, новые первыми
// При onlyUnread=true возвращаются только непрочитанные
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, onlyUnread bool) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"user_id": userID})

	if onlyUnread {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.NotificationUnread})
	}

	query, args, err := selectBuilder.
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.SourceApp,
			&n.ActionType,
			&n.EntityID,
			&n.ActionURL,
			&n.Metadata,
			&n.Status,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return notifications, nil
}

// CountUnread возвращает число непрочитанных уведомлений пользователя
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": domain.NotificationUnread}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - execute query: %v", ErrExecQuery, err)
	}

	return count, nil
}

// MarkRead помечает уведомление прочитанным
// Принадлежность пользователю проверяется условием WHERE
func (r *Repository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notifications").
		Set("status", domain.NotificationRead).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными
// Возвращает число обновлённых записей
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notifications").
		Set("status", domain.NotificationRead).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": domain.NotificationUnread}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// GetSetting получает правило маршрутизации по паре (source_app, action_type)
func (r *Repository) GetSetting(ctx context.Context, sourceApp, actionType string) (*domain.NotificationSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"source_app",
		"action_type",
		"is_active",
		"recipient_roles",
		"recipient_groups",
		"created_at",
		"updated_at",
	).
		From("notification_settings").
		Where(squirrel.Eq{"source_app": sourceApp}).
		Where(squirrel.Eq{"action_type": actionType}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSetting - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	setting, err := scanSetting(row)
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSetting - scan setting: %v", ErrScanRow, err)
	}

	return setting, nil
}

// ListSettings получает все правила маршрутизации
func (r *Repository) ListSettings(ctx context.Context) ([]*domain.NotificationSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"source_app",
		"action_type",
		"is_active",
		"recipient_roles",
		"recipient_groups",
		"created_at",
		"updated_at",
	).
		From("notification_settings").
		OrderBy("source_app ASC, action_type ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSettings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSettings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	settings := make([]*domain.NotificationSetting, 0)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListSettings - scan row: %v", ErrScanRow, err)
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSettings - rows error: %v", ErrScanRow, err)
	}

	return settings, nil
}

// UpsertSetting создает или обновляет правило маршрутизации
// Конфликт по (source_app, action_type) перезаписывает существующее правило
func (r *Repository) UpsertSetting(ctx context.Context, s *domain.NotificationSetting) (*domain.NotificationSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notification_settings").
		Columns("source_app", "action_type", "is_active", "recipient_roles", "recipient_groups").
		Values(
			s.SourceApp,
			s.ActionType,
			s.IsActive,
			domain.JSONStrings(s.RecipientRoles),
			domain.JSONStrings(s.RecipientGroups),
		).
		Suffix(`ON CONFLICT (source_app, action_type) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			recipient_roles = EXCLUDED.recipient_roles,
			recipient_groups = EXCLUDED.recipient_groups,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertSetting - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertSetting - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GroupMemberIDs получает ID участников групп уведомлений
// Неизвестные группы пропускаются без ошибки
func (r *Repository) GroupMemberIDs(ctx context.Context, groupIDs []string) ([]uuid.UUID, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT user_id").
		From("notification_group_members").
		Where(squirrel.Eq{"group_id": groupIDs}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GroupMemberIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GroupMemberIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GroupMemberIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GroupMemberIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSetting(row rowScanner) (*domain.NotificationSetting, error) {
	var (
		setting domain.NotificationSetting
		roles   domain.JSONStrings
		groups  domain.JSONStrings
	)

	err := row.Scan(
		&setting.ID,
		&setting.SourceApp,
		&setting.ActionType,
		&setting.IsActive,
		&roles,
		&groups,
		&setting.CreatedAt,
		&setting.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	setting.RecipientRoles = []string(roles)
	setting.RecipientGroups = []string(groups)

	return &setting, nil
}
