package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// Config конфигурация приложения
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	SMTP      SMTPConfig      `toml:"smtp"`
	Stripe    StripeConfig    `toml:"stripe"`
	Booking   BookingConfig   `toml:"booking"`
	Client    ClientConfig    `toml:"client"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Sweep     SweepConfig     `toml:"sweep"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" envconfig:"DB_HOST"`
	Port            int    `toml:"port" envconfig:"DB_PORT"`
	User            string `toml:"user" envconfig:"DB_USER"`
	Password        string `toml:"password" envconfig:"DB_PASSWORD"`
	DBName          string `toml:"dbname" envconfig:"DB_NAME"`
	SSLMode         string `toml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrationsPath  string `toml:"migrations_path" envconfig:"DB_MIGRATIONS_PATH"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" envconfig:"LOG_LEVEL"`
	File  string `toml:"file" envconfig:"LOG_FILE"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig очередь писем
type RedisConfig struct {
	Addr     string `toml:"addr" envconfig:"REDIS_ADDR"`
	Password string `toml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `toml:"db" envconfig:"REDIS_DB"`
	Queue    string `toml:"queue"`
	Failed   string `toml:"failed_queue"`
}

// SMTPConfig отправка писем
type SMTPConfig struct {
	Host      string `toml:"host" envconfig:"SMTP_HOST"`
	Port      int    `toml:"port" envconfig:"SMTP_PORT"`
	Username  string `toml:"username" envconfig:"SMTP_USERNAME"`
	Password  string `toml:"password" envconfig:"SMTP_PASSWORD"`
	FromEmail string `toml:"from_email" envconfig:"EMAIL_FROM"`
	FromName  string `toml:"from_name"`
	Workers   int    `toml:"workers"`
}

// StripeConfig встроенный checkout и возвраты
type StripeConfig struct {
	SecretKey string `toml:"secret_key" envconfig:"STRIPE_SECRET_KEY"`
	Currency  string `toml:"currency"`
}

// BookingConfig корты, расписание и цены
type BookingConfig struct {
	Courts               int    `toml:"courts"`
	OpenHour             int    `toml:"open_hour"`
	CloseHour            int    `toml:"close_hour"`
	SlotDurationMinutes  int    `toml:"slot_duration_minutes"`
	HourlyPrice          int    `toml:"hourly_price"`
	YouthDiscountPercent int    `toml:"youth_discount_percent"`
	YearlyAllowance      int    `toml:"yearly_allowance"`
	MaxSlotsPerBooking   int    `toml:"max_slots_per_booking"`
	Timezone             string `toml:"timezone"`
}

// ClientConfig фронтенд, на который ведут ссылки из писем и Stripe
type ClientConfig struct {
	URL string `toml:"url" envconfig:"CLIENT_URL"`
}

// RateLimitConfig лимит запросов на изменяющие эндпоинты, на один IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// SweepConfig освобождение зависших pending бронирований
type SweepConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
	PendingTTLMins  int  `toml:"pending_ttl_minutes"`
	BatchSize       int  `toml:"batch_size"`
}

// Interval период запуска очистки
func (c SweepConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// PendingTTL сколько бронирование может ждать оплату
func (c SweepConfig) PendingTTL() time.Duration {
	return time.Duration(c.PendingTTLMins) * time.Minute
}

// Load читает TOML файл, затем .env и переменные окружения поверх него
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	sections := []interface{}{
		&cfg.Server, &cfg.Database, &cfg.Logs, &cfg.Redis,
		&cfg.SMTP, &cfg.Stripe, &cfg.Client,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return fmt.Errorf("process environment: %w", err)
		}
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrationsPath:  "migrations",
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "court_booking"},
		Redis:   RedisConfig{Addr: "localhost:6379", Queue: "emails", Failed: "emails:failed"},
		SMTP:    SMTPConfig{Port: 587, FromName: "Steninge TK", Workers: 1},
		Stripe:  StripeConfig{Currency: "sek"},
		Booking: BookingConfig{
			Courts:               domain.DefaultCourts,
			OpenHour:             domain.DefaultOpenHour,
			CloseHour:            domain.DefaultCloseHour,
			SlotDurationMinutes:  domain.DefaultSlotDurationMinutes,
			HourlyPrice:          domain.DefaultHourlyPrice,
			YouthDiscountPercent: domain.DefaultYouthDiscountPercent,
			YearlyAllowance:      domain.DefaultYearlyAllowance,
			MaxSlotsPerBooking:   domain.DefaultMaxSlotsPerBooking,
			Timezone:             domain.DefaultTimezone,
		},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 2, Burst: 10},
		Sweep:     SweepConfig{Enabled: true, IntervalSeconds: 60, PendingTTLMins: 30, BatchSize: 100},
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database.host and database.dbname are required")
	}
	if _, err := c.CourtSettings(); err != nil {
		return fmt.Errorf("invalid booking section: %w", err)
	}
	if _, err := url.ParseRequestURI(c.Client.URL); err != nil {
		return fmt.Errorf("invalid client.url %q: %w", c.Client.URL, err)
	}
	if c.Redis.Queue == "" || c.Redis.Failed == "" {
		return fmt.Errorf("redis.queue and redis.failed_queue are required")
	}
	if c.SMTP.Workers < 1 {
		return fmt.Errorf("smtp.workers must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate_limit requires positive requests_per_second and burst")
	}
	if c.Sweep.Enabled && (c.Sweep.IntervalSeconds <= 0 || c.Sweep.PendingTTLMins <= 0 || c.Sweep.BatchSize <= 0) {
		return fmt.Errorf("sweep requires positive interval_seconds, pending_ttl_minutes and batch_size")
	}
	return nil
}

// CourtSettings собирает неизменяемые настройки кортов из секции booking
func (c *Config) CourtSettings() (domain.CourtSettings, error) {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return domain.CourtSettings{}, fmt.Errorf("unknown timezone %q: %w", c.Booking.Timezone, err)
	}

	settings := domain.CourtSettings{
		Courts:               c.Booking.Courts,
		OpenHour:             c.Booking.OpenHour,
		CloseHour:            c.Booking.CloseHour,
		SlotDuration:         time.Duration(c.Booking.SlotDurationMinutes) * time.Minute,
		HourlyPrice:          c.Booking.HourlyPrice,
		YouthDiscountPercent: c.Booking.YouthDiscountPercent,
		YearlyAllowance:      c.Booking.YearlyAllowance,
		MaxSlotsPerBooking:   c.Booking.MaxSlotsPerBooking,
		Location:             loc,
	}
	if err := settings.Validate(); err != nil {
		return domain.CourtSettings{}, err
	}
	return settings, nil
}

// ClientURL базовый адрес фронтенда без завершающего слэша
func (c *Config) ClientURL() string {
	return strings.TrimRight(c.Client.URL, "/")
}
