package supplier

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

var supplierColumns = []string{
	"id",
	"code",
	"name",
	"phone",
	"address",
	"deleted_at",
	"deleted_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий поставщиков
// Используется шагом применения согласованных изменений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория поставщиков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает поставщика по ID (включая мягко удалённых)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(supplierColumns...).
		From("suppliers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Supplier
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Code,
		&s.Name,
		&s.Phone,
		&s.Address,
		&s.DeletedAt,
		&s.DeletedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSupplierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan supplier: %v", ErrScanRow, err)
	}

	return &s, nil
}

// Update частично изменяет поставщика
func (r *Repository) Update(ctx context.Context, id uuid.UUID, update domain.SupplierUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("suppliers").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	if update.Code != nil {
		updateBuilder = updateBuilder.Set("code", *update.Code)
	}
	if update.Name != nil {
		updateBuilder = updateBuilder.Set("name", *update.Name)
	}
	if update.Phone != nil {
		updateBuilder = updateBuilder.Set("phone", *update.Phone)
	}
	if update.Address != nil {
		updateBuilder = updateBuilder.Set("address", *update.Address)
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
		return ErrSupplierNotFound
	}

	return nil
}

// SoftDelete мягко удаляет поставщика
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("suppliers").
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
		return ErrSupplierNotFound
	}

	return nil
}
