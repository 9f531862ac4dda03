package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/dbmetrics"
	"github.com/apiwat1229/ServiceHub-sub002/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"date",
	"start_time",
	"end_time",
	"slot",
	"queue_no",
	"booking_code",
	"supplier_id",
	"supplier_code",
	"supplier_name",
	"truck_type",
	"truck_register",
	"rubber_type",
	"recorder",
	"lot_no",
	"moisture",
	"drc_est",
	"drc_requested",
	"drc_actual",
	"checkin_at",
	"checkin_by",
	"start_drain_at",
	"stop_drain_at",
	"drain_note",
	"weight_in",
	"weight_in_at",
	"weight_in_by",
	"weight_out",
	"weight_out_at",
	"weight_out_by",
	"deleted_at",
	"deleted_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникальности (date, slot, queue_no) возвращается как
// ErrDuplicateQueueNo — аллокатор повторяет попытку
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"date",
			"start_time",
			"end_time",
			"slot",
			"queue_no",
			"booking_code",
			"supplier_id",
			"supplier_code",
			"supplier_name",
			"truck_type",
			"truck_register",
			"rubber_type",
			"recorder",
			"lot_no",
			"moisture",
			"drc_est",
			"drc_requested",
			"drc_actual",
		).
		Values(
			b.Date,
			b.StartTime,
			b.EndTime,
			b.Slot,
			b.QueueNo,
			b.BookingCode,
			b.SupplierID,
			b.SupplierCode,
			b.SupplierName,
			b.TruckType,
			b.TruckRegister,
			b.RubberType,
			b.Recorder,
			b.LotNo,
			b.Moisture,
			b.DRCEst,
			b.DRCRequested,
			b.DRCActual,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateQueueNo, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID (включая мягко удалённые)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// List получает бронирования по фильтру, отсортированные по номеру очереди
// Внутри транзакции выборка конкретного дня и слота блокируется FOR UPDATE:
// это сериализует конкурентную выдачу номеров очереди
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"date": *filter.Date})
	}
	if filter.Slot != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot": *filter.Slot})
	}
	if filter.CodePrefix != nil {
		selectBuilder = selectBuilder.Where(squirrel.Like{"booking_code": *filter.CodePrefix + "%"})
	}
	if !filter.IncludeDeleted {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"deleted_at": nil})
	}

	selectBuilder = selectBuilder.OrderBy("queue_no ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil && filter.Slot != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update применяет частичное обновление бронирования
func (r *Repository) Update(ctx context.Context, id uuid.UUID, upd domain.BookingUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if upd.SupplierID != nil {
		updateBuilder = updateBuilder.Set("supplier_id", *upd.SupplierID)
	}
	if upd.SupplierCode != nil {
		updateBuilder = updateBuilder.Set("supplier_code", *upd.SupplierCode)
	}
	if upd.SupplierName != nil {
		updateBuilder = updateBuilder.Set("supplier_name", *upd.SupplierName)
	}
	if upd.TruckType != nil {
		updateBuilder = updateBuilder.Set("truck_type", *upd.TruckType)
	}
	if upd.TruckRegister != nil {
		updateBuilder = updateBuilder.Set("truck_register", *upd.TruckRegister)
	}
	if upd.RubberType != nil {
		updateBuilder = updateBuilder.Set("rubber_type", *upd.RubberType)
	}
	if upd.Recorder != nil {
		updateBuilder = updateBuilder.Set("recorder", *upd.Recorder)
	}
	if upd.LotNo != nil {
		updateBuilder = updateBuilder.Set("lot_no", *upd.LotNo)
	}
	if upd.Moisture != nil {
		updateBuilder = updateBuilder.Set("moisture", *upd.Moisture)
	}
	if upd.DRCEst != nil {
		updateBuilder = updateBuilder.Set("drc_est", *upd.DRCEst)
	}
	if upd.DRCRequested != nil {
		updateBuilder = updateBuilder.Set("drc_requested", *upd.DRCRequested)
	}
	if upd.DRCActual != nil {
		updateBuilder = updateBuilder.Set("drc_actual", *upd.DRCActual)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Update", query, args)
}

// CheckIn отмечает регистрацию грузовика на въезде
func (r *Repository) CheckIn(ctx context.Context, id uuid.UUID, at time.Time, by string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("checkin_at", at).
		Set("checkin_by", by).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CheckIn - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "CheckIn", query, args)
}

// StartDrain отмечает начало слива
func (r *Repository) StartDrain(ctx context.Context, id uuid.UUID, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_drain_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: StartDrain - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "StartDrain", query, args)
}

// StopDrain отмечает окончание слива
func (r *Repository) StopDrain(ctx context.Context, id uuid.UUID, at time.Time, note *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("stop_drain_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if note != nil {
		updateBuilder = updateBuilder.Set("drain_note", *note)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: StopDrain - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "StopDrain", query, args)
}

// WeightIn фиксирует вес на въезде
func (r *Repository) WeightIn(ctx context.Context, id uuid.UUID, weight float64, at time.Time, by string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("weight_in", weight).
		Set("weight_in_at", at).
		Set("weight_in_by", by).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: WeightIn - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "WeightIn", query, args)
}

// WeightOut фиксирует вес на выезде
func (r *Repository) WeightOut(ctx context.Context, id uuid.UUID, weight float64, at time.Time, by string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("weight_out", weight).
		Set("weight_out_at", at).
		Set("weight_out_by", by).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: WeightOut - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "WeightOut", query, args)
}

// SoftDelete мягко удаляет бронирование с указанием удалившего
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("deleted_by", deletedBy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "SoftDelete", query, args)
}

// Delete физически удаляет бронирование (использовать осторожно)
// Для сохранения истории предпочтителен SoftDelete
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Delete", query, args)
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.Slot,
		&b.QueueNo,
		&b.BookingCode,
		&b.SupplierID,
		&b.SupplierCode,
		&b.SupplierName,
		&b.TruckType,
		&b.TruckRegister,
		&b.RubberType,
		&b.Recorder,
		&b.LotNo,
		&b.Moisture,
		&b.DRCEst,
		&b.DRCRequested,
		&b.DRCActual,
		&b.CheckinAt,
		&b.CheckinBy,
		&b.StartDrainAt,
		&b.StopDrainAt,
		&b.DrainNote,
		&b.WeightIn,
		&b.WeightInAt,
		&b.WeightInBy,
		&b.WeightOut,
		&b.WeightOutAt,
		&b.WeightOutBy,
		&b.DeletedAt,
		&b.DeletedBy,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
