package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverMySQL    = "mysql"
	StorageDriverRedis    = "redis"
)

type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	DataDir       string `mapstructure:"data_dir"`
	DSN           string `mapstructure:"dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

type TelegramConfig struct {
	BotToken string        `mapstructure:"bot_token"`
	APIURL   string        `mapstructure:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// ReminderConfig weekdays use the cron convention, 0 is Sunday.
type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Hour     int    `mapstructure:"hour"`
	Minute   int    `mapstructure:"minute"`
	Weekdays []int  `mapstructure:"weekdays"`
	Timezone string `mapstructure:"timezone"`
	Text     string `mapstructure:"text"`
}

type NotifyConfig struct {
	MaxWorkers      int           `mapstructure:"max_workers"`
	QueueSize       int           `mapstructure:"queue_size"`
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultReminderText = "⏰ <b>Напоминание!</b>\n\nНе забудьте заполнить отчёт за сегодня 👇"
	DefaultTimezone     = "Europe/Moscow"

	DefaultReminderHour   = 16
	DefaultReminderMinute = 50
)

// Defaults fills zero values with the values the service ships with. The
// reminder time is left alone since 00:00 is a valid setting; loaders apply
// DefaultTime when neither field was configured.
func (c *Config) Defaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverFile
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.RedisPrefix == "" {
		c.Storage.RedisPrefix = "timesheet"
	}
	if c.Telegram.APIURL == "" {
		c.Telegram.APIURL = "https://api.telegram.org"
	}
	if c.Telegram.Timeout <= 0 {
		c.Telegram.Timeout = 10 * time.Second
	}
	if len(c.Reminder.Weekdays) == 0 {
		c.Reminder.Weekdays = []int{1, 2, 3, 4, 5}
	}
	if c.Reminder.Timezone == "" {
		c.Reminder.Timezone = DefaultTimezone
	}
	if c.Reminder.Text == "" {
		c.Reminder.Text = DefaultReminderText
	}
	if c.Notify.MaxWorkers <= 0 {
		c.Notify.MaxWorkers = 4
	}
	if c.Notify.QueueSize <= 0 {
		c.Notify.QueueSize = 100
	}
	if c.Notify.DeliveryTimeout <= 0 {
		c.Notify.DeliveryTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the configuration from plain environment
// variables, used for container deployments.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", StorageDriverFile),
			DataDir:       getEnv("DATA_DIR", "data"),
			DSN:           getEnv("DATABASE_URL", ""),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			RedisPrefix:   getEnv("REDIS_PREFIX", "timesheet"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIURL:   getEnv("TELEGRAM_API_URL", ""),
			Timeout:  getEnvAsDuration("TELEGRAM_TIMEOUT", 10*time.Second),
		},
		Admin: AdminConfig{
			IDs: getEnvAsInt64s("ADMIN_IDS"),
		},
		Reminder: ReminderConfig{
			Enabled:  getEnv("REMINDER_ENABLED", "true") == "true",
			Hour:     getEnvAsInt("REMINDER_HOUR", DefaultReminderHour),
			Minute:   getEnvAsInt("REMINDER_MINUTE", DefaultReminderMinute),
			Weekdays: getEnvAsInts("REMINDER_WEEKDAYS"),
			Timezone: getEnv("REMINDER_TIMEZONE", DefaultTimezone),
			Text:     getEnv("REMINDER_TEXT", ""),
		},
		Notify: NotifyConfig{
			MaxWorkers:      getEnvAsInt("NOTIFY_MAX_WORKERS", 4),
			QueueSize:       getEnvAsInt("NOTIFY_QUEUE_SIZE", 100),
			DeliveryTimeout: getEnvAsDuration("NOTIFY_DELIVERY_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.Defaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvAsInt64s(key string) []int64 {
	var out []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func getEnvAsInts(key string) []int {
	var out []int
	for _, id := range getEnvAsInt64s(key) {
		out = append(out, int(id))
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Reminder.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("reminder config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverFile:
		if c.DataDir == "" {
			return errors.New("data_dir is required for the file driver")
		}
	case StorageDriverSQLite, StorageDriverPostgres, StorageDriverMySQL:
		if c.DSN == "" {
			return fmt.Errorf("dsn is required for the %s driver", c.Driver)
		}
	case StorageDriverRedis:
		if c.RedisAddr == "" {
			return errors.New("redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	return nil
}

func (c *ReminderConfig) Validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("hour %d out of range", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("minute %d out of range", c.Minute)
	}
	if len(c.Weekdays) == 0 {
		return errors.New("at least one weekday is required")
	}
	for _, d := range c.Weekdays {
		if d < 0 || d > 6 {
			return fmt.Errorf("weekday %d out of range", d)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

func (c *ReminderConfig) DefaultTime() {
	c.Hour, c.Minute = DefaultReminderHour, DefaultReminderMinute
}

func (c *ReminderConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.LoadLocation(DefaultTimezone)
	}
	return time.LoadLocation(c.Timezone)
}

// CronSpec renders the schedule as a standard five-field cron expression.
func (c *ReminderConfig) CronSpec() string {
	days := make([]string, len(c.Weekdays))
	for i, d := range c.Weekdays {
		days[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("%d %d * * %s", c.Minute, c.Hour, strings.Join(days, ","))
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	return nil
}
