package domain

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей
const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Разрешения, дающие право прямого изменения бронирований
const (
	PermBookingsApprove = "bookings:approve"
	PermBookingsAll     = "bookings:all"
)

// User пользователь системы
type User struct {
	ID          uuid.UUID
	Username    string
	Email       string
	DisplayName *string
	Role        string
	Permissions []string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanApproveBookings возвращает true, если пользователь может изменять
// бронирования напрямую, минуя согласование
func (u *User) CanApproveBookings() bool {
	if u.Role == RoleAdmin || u.Role == RoleSuperAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == PermBookingsApprove || p == PermBookingsAll {
			return true
		}
	}
	return false
}

// Name возвращает отображаемое имя пользователя, либо email
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}
