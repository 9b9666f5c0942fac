package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/deptdesk/internal/core/department"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Routing  RoutingConfig  `mapstructure:"routing"`
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

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenDuration     time.Duration `mapstructure:"token_duration"`
	BCryptCost        int           `mapstructure:"bcrypt_cost"`
	MinPasswordLength int           `mapstructure:"min_password_length"`
}

// CacheConfig points at the Redis instance backing the analytics cache and
// the token revocation list. Leaving Addr empty disables both.
type CacheConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	SummaryTTL time.Duration `mapstructure:"summary_ttl"`
}

type RoutingConfig struct {
	DefaultDepartment   string            `mapstructure:"default_department"`
	CategoryDepartments map[string]string `mapstructure:"category_departments"`
	AutoRouteInterval   time.Duration     `mapstructure:"auto_route_interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- DEFAULTS -----------------

const (
	defaultTokenDuration     = 7 * 24 * time.Hour
	defaultBCryptCost        = 10
	defaultMinPasswordLength = 6
	defaultSummaryTTL        = 30 * time.Second
	defaultAutoRouteInterval = 5 * time.Minute
)

// ApplyDefaults fills zero values that have a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Security.TokenDuration == 0 {
		c.Security.TokenDuration = defaultTokenDuration
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = defaultBCryptCost
	}
	if c.Security.MinPasswordLength == 0 {
		c.Security.MinPasswordLength = defaultMinPasswordLength
	}
	if c.Cache.SummaryTTL == 0 {
		c.Cache.SummaryTTL = defaultSummaryTTL
	}
	if c.Routing.DefaultDepartment == "" {
		c.Routing.DefaultDepartment = string(department.Tech)
	}
	if c.Routing.AutoRouteInterval == 0 {
		c.Routing.AutoRouteInterval = defaultAutoRouteInterval
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the configuration from plain environment
// variables, used by container deployments without a config file.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Security: SecurityConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			TokenDuration:     getEnvAsDuration("TOKEN_DURATION", defaultTokenDuration),
			BCryptCost:        getEnvAsInt("BCRYPT_COST", defaultBCryptCost),
			MinPasswordLength: getEnvAsInt("MIN_PASSWORD_LENGTH", defaultMinPasswordLength),
		},
		Cache: CacheConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			SummaryTTL: getEnvAsDuration("SUMMARY_CACHE_TTL", defaultSummaryTTL),
		},
		Routing: RoutingConfig{
			DefaultDepartment:   getEnv("ROUTING_DEFAULT_DEPARTMENT", string(department.Tech)),
			CategoryDepartments: getEnvAsMap("ROUTING_CATEGORY_DEPARTMENTS"),
			AutoRouteInterval:   getEnvAsDuration("AUTO_ROUTE_INTERVAL", defaultAutoRouteInterval),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.ApplyDefaults()
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

// getEnvAsMap parses "k1=v1,k2=v2".
func getEnvAsMap(key string) map[string]string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Routing.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("routing config: %v", err))
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
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
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

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.TokenDuration < time.Minute {
		return errors.New("token_duration must be at least 1m")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return errors.New("bcrypt_cost must be between 4 and 31")
	}
	if c.MinPasswordLength < 1 {
		return errors.New("min_password_length must be positive")
	}
	return nil
}

func (c *RoutingConfig) Validate() error {
	if _, ok := department.Parse(c.DefaultDepartment); !ok {
		return fmt.Errorf("unknown default_department %q", c.DefaultDepartment)
	}
	for category, dept := range c.CategoryDepartments {
		if _, ok := department.Parse(dept); !ok {
			return fmt.Errorf("category %q maps to unknown department %q", category, dept)
		}
	}
	if c.AutoRouteInterval < 0 {
		return errors.New("auto_route_interval cannot be negative")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}
