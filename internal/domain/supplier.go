package domain

import (
	"time"

	"github.com/google/uuid"
)

// Supplier поставщик каучука
// HTTP-интерфейс для поставщиков вне этого сервиса; записи нужны
// шагу применения согласованных изменений
type Supplier struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Phone     *string
	Address   *string
	DeletedAt *time.Time
	DeletedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted возвращает true, если поставщик мягко удалён
func (s *Supplier) IsDeleted() bool {
	return s.DeletedAt != nil
}

// SupplierUpdate частичное изменение поставщика
// nil-поля не изменяются
type SupplierUpdate struct {
	Code    *string
	Name    *string
	Phone   *string
	Address *string
}

// IsEmpty возвращает true, если изменять нечего
func (u SupplierUpdate) IsEmpty() bool {
	return u.Code == nil && u.Name == nil && u.Phone == nil && u.Address == nil
}

// RubberType вид принимаемого каучука
type RubberType struct {
	ID        uuid.UUID
	Code      string
	Name      string
	DeletedAt *time.Time
	DeletedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted возвращает true, если вид каучука мягко удалён
func (t *RubberType) IsDeleted() bool {
	return t.DeletedAt != nil
}

// RubberTypeUpdate частичное изменение вида каучука
// nil-поля не изменяются
type RubberTypeUpdate struct {
	Code *string
	Name *string
}

// IsEmpty возвращает true, если изменять нечего
func (u RubberTypeUpdate) IsEmpty() bool {
	return u.Code == nil && u.Name == nil
}
