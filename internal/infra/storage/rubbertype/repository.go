package rubbertype

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

// Repository репозиторий видов каучука
// Используется шагом применения согласованных изменений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория видов каучука
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает вид каучука по ID (включая мягко удалённые)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RubberType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"code",
		"name",
		"deleted_at",
		"deleted_by",
		"created_at",
		"updated_at",
	).
		From("rubber_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.RubberType
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Code,
		&t.Name,
		&t.DeletedAt,
		&t.DeletedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRubberTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rubber type: %v", ErrScanRow, err)
	}

	return &t, nil
}

// Update частично изменяет вид каучука
func (r *Repository) Update(ctx context.Context, id uuid.UUID, update domain.RubberTypeUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("rubber_types").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	if update.Code != nil {
		updateBuilder = updateBuilder.Set("code", *update.Code)
	}
	if update.Name != nil {
		updateBuilder = updateBuilder.Set("name", *update.Name)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRubberTypeNotFound
	}

	return nil
}

// SoftDelete мягко удаляет вид каучука
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("rubber_types").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("deleted_by", deletedBy).
		Set("updated_at", squirrel.Expr("NOW()")).
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
		return ErrRubberTypeNotFound
	}

	return nil
}
