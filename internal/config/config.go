package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — конфигурация процесса.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Booking  BookingConfig  `mapstructure:"booking"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	TimeZone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifeTime int    `mapstructure:"conn_max_lifetime_min"` // минут
}

// DSN собирает строку подключения Postgres.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BookingConfig — настройки ядра бронирования.
type BookingConfig struct {
	// Референсная таймзона слотов. Общая для читающего и пишущего
	// путей; её смена — ломающая миграция ключей ledger.
	ReferenceTimezone string `mapstructure:"reference_timezone"`

	// Лимит мутирующих запросов (в секунду) и размер burst.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Location загружает референсную таймзону.
func (c *BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone %q: %w", c.ReferenceTimezone, err)
	}
	return loc, nil
}

// Load читает конфигурацию из файла и окружения.
// Приоритет: окружение > файл > дефолты.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)

	v.SetDefault("db.host", "postgres")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "booking_db")
	v.SetDefault("db.user", "booking")
	v.SetDefault("db.password", "booking")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime_min", 30)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("booking.reference_timezone", "Europe/Moscow")
	v.SetDefault("booking.rate_limit_rps", 10.0)
	v.SetDefault("booking.rate_limit_burst", 20)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Файла может не быть: живём на дефолтах и окружении.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}

	return &cfg, nil
}
