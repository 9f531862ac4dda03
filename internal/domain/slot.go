package domain

import (
	"time"

	"github.com/apiwat1229/ServiceHub-sub002/pkg/types"
)

// SlotConfig политика одного временного слота
// Limit == nil означает слот без ограничения вместимости
type SlotConfig struct {
	Start int
	Limit *int
}

// IsUnlimited возвращает true, если слот не ограничен по вместимости
func (c SlotConfig) IsUnlimited() bool {
	return c.Limit == nil
}

// SlotTable таблица слотов приёмки, передаётся аллокатору из конфигурации
// Порядок Slots определяет порядок слотов в статистике
type SlotTable struct {
	Slots map[string]SlotConfig
	Order []string

	// SaturdayUnlimitedSlot слот, который по субботам становится безлимитным
	SaturdayUnlimitedSlot string
}

// DefaultSlotTable таблица слотов по умолчанию
// Номера очереди сквозные: каждый следующий слот стартует после лимита предыдущего
func DefaultSlotTable() SlotTable {
	four := 4
	return SlotTable{
		Slots: map[string]SlotConfig{
			"08:00-09:00": {Start: 1, Limit: &four},
			"09:00-10:00": {Start: 5, Limit: &four},
			"10:00-11:00": {Start: 9, Limit: &four},
			"11:00-12:00": {Start: 13, Limit: &four},
			"13:00-14:00": {Start: 17, Limit: nil},
		},
		Order: []string{
			"08:00-09:00",
			"09:00-10:00",
			"10:00-11:00",
			"11:00-12:00",
			"13:00-14:00",
		},
		SaturdayUnlimitedSlot: "10:00-11:00",
	}
}

// Resolve возвращает эффективную конфигурацию слота на указанную дату
// Субботнее правило: настроенный слот становится безлимитным
// Неизвестный слот получает {Start: 1, Limit: nil} — политика последней надежды,
// а не валидированная конфигурация
func (t SlotTable) Resolve(slot string, date time.Time) SlotConfig {
	if date.Weekday() == time.Saturday && slot == t.SaturdayUnlimitedSlot {
		if cfg, ok := t.Slots[slot]; ok {
			return SlotConfig{Start: cfg.Start, Limit: nil}
		}
	}

	if cfg, ok := t.Slots[slot]; ok {
		return cfg
	}

	return SlotConfig{Start: 1, Limit: nil}
}

// SlotKey собирает ключ слота из времени начала и окончания
func SlotKey(start, end types.TimeString) string {
	return start.String() + "-" + end.String()
}
