package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Business BusinessConfig `toml:"business"`
	Bases    []BaseConfig   `toml:"bases"`
	Routing  RoutingConfig  `toml:"routing"`
	Calendar CalendarConfig `toml:"calendar"`
	Stripe   StripeConfig   `toml:"stripe"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Admin    AdminConfig    `toml:"admin"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
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
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BusinessConfig бизнес-параметры бронирования
type BusinessConfig struct {
	Timezone               string   `toml:"timezone"`
	SiteURL                string   `toml:"site_url"`
	InternalEmail          string   `toml:"internal_email"`
	TechName               string   `toml:"tech_name"`
	PendingTTLMinutes      int      `toml:"pending_ttl_minutes"`
	EarlyLateBufferMinutes int      `toml:"early_late_buffer_minutes"`
	EarlyLateMarkers       []string `toml:"early_late_markers"`
}

// BaseConfig точка выезда техника
type BaseConfig struct {
	Name     string `toml:"name"`
	Postcode string `toml:"postcode"`
}

// RoutingConfig настройки сервиса расчета времени в пути
type RoutingConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// CalendarConfig настройки Google Calendar
type CalendarConfig struct {
	CalendarID   string `toml:"calendar_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

// StripeConfig настройки платежного провайдера
type StripeConfig struct {
	SecretKey      string `toml:"secret_key"`
	WebhookSecret  string `toml:"webhook_secret"`
	SuccessURLBase string `toml:"success_url_base"`
}

// SMTPConfig настройки исходящей почты
type SMTPConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	FromEmail string `toml:"from_email"`
}

// AdminConfig настройки админ-панели
type AdminConfig struct {
	Password               string `toml:"password"`
	SessionSecret          string `toml:"session_secret"`
	SessionTTLHours        int    `toml:"session_ttl_hours"`
	LoginRateWindowSeconds int    `toml:"login_rate_window_seconds"`
	LoginRateMaxAttempts   int    `toml:"login_rate_max_attempts"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	if cfg.Server.HTTPPort == 0 {
		return nil, fmt.Errorf("server.http_port is required")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		return nil, fmt.Errorf("database connection settings are required")
	}
	if len(cfg.Bases) == 0 {
		return nil, fmt.Errorf("at least one base must be configured")
	}
	if cfg.Business.Timezone == "" {
		cfg.Business.Timezone = "Europe/London"
	}
	if cfg.Business.PendingTTLMinutes == 0 {
		cfg.Business.PendingTTLMinutes = 30
	}
	if cfg.Business.EarlyLateBufferMinutes == 0 {
		cfg.Business.EarlyLateBufferMinutes = 60
	}
	if len(cfg.Business.EarlyLateMarkers) == 0 {
		cfg.Business.EarlyLateMarkers = []string{"early shift", "late shift", "early/late shift"}
	}

	return &cfg, nil
}
