package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server     Server     `toml:"server"`
	Database   Database   `toml:"database"`
	Logs       Logs       `toml:"logs"`
	Metrics    Metrics    `toml:"metrics"`
	Migrations Migrations `toml:"migrations"`
	Slots      Slots      `toml:"slots"`
	Approvals  Approvals  `toml:"approvals"`
}

// Server настройки HTTP сервера
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Database настройки подключения к PostgreSQL
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки Prometheus метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// Migrations настройки миграций схемы
type Migrations struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Slots конфигурация таблицы слотов приёмки
// Слоты задаются в конфигурации, а не в коде: политику слотов
// можно менять без пересборки сервиса
type Slots struct {
	SaturdayUnlimitedSlot string      `toml:"saturday_unlimited_slot"`
	Entries               []SlotEntry `toml:"entry"`
}

// SlotEntry один слот приёмки
// Limit <= 0 означает слот без ограничения вместимости
type SlotEntry struct {
	Slot  string `toml:"slot"`
	Start int    `toml:"start"`
	Limit int    `toml:"limit"`
}

// Approvals настройки контура согласований
type Approvals struct {
	// ExpirySweepInterval период запуска фоновой проверки просроченных заявок, в секундах
	ExpirySweepInterval int `toml:"expiry_sweep_interval"`
	// DefaultTTLHours срок жизни заявки, если клиент не передал expiresAt (0 - бессрочно)
	DefaultTTLHours int `toml:"default_ttl_hours"`
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// SlotTable собирает доменную таблицу слотов из конфигурации
// Пустая секция [slots] даёт таблицу по умолчанию
func (c *Config) SlotTable() domain.SlotTable {
	if len(c.Slots.Entries) == 0 {
		return domain.DefaultSlotTable()
	}

	table := domain.SlotTable{
		Slots:                 make(map[string]domain.SlotConfig, len(c.Slots.Entries)),
		Order:                 make([]string, 0, len(c.Slots.Entries)),
		SaturdayUnlimitedSlot: c.Slots.SaturdayUnlimitedSlot,
	}

	for _, e := range c.Slots.Entries {
		cfg := domain.SlotConfig{Start: e.Start}
		if e.Limit > 0 {
			limit := e.Limit
			cfg.Limit = &limit
		}
		table.Slots[e.Slot] = cfg
		table.Order = append(table.Order, e.Slot)
	}

	return table
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Migrations.Path == "" {
		cfg.Migrations.Path = "migrations"
	}
	if cfg.Approvals.ExpirySweepInterval == 0 {
		cfg.Approvals.ExpirySweepInterval = 3600
	}
}
