package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config is the application-wide configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Database     DatabaseConfig     `mapstructure:"db"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Notify       NotifyConfig       `mapstructure:"notify"`
	Collaborator CollaboratorConfig `mapstructure:"collaborator"`
	Billing      BillingConfig      `mapstructure:"billing"`
	Audit        AuditConfig        `mapstructure:"audit"`
	Log          LogConfig          `mapstructure:"log"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"` // prefix of transfer share links
	CORS      CORSConfig `mapstructure:"cors"`
	BodyLimit int64      `mapstructure:"body_limit"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// StorageConfig selects the durable key/value backend.
type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DatabaseConfig PostgreSQL settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings. An empty Addr disables Redis unless the
// storage driver requires it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig token and administrator credential settings.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	AdminEmail     string        `mapstructure:"admin_email"`
	AdminPassword  string        `mapstructure:"admin_password"`
	AdminName      string        `mapstructure:"admin_name"`

	// AdminPasswordHash is filled by Load; AdminPassword is cleared afterwards.
	AdminPasswordHash []byte `mapstructure:"-"`
}

// NotifyConfig in-app notification settings.
type NotifyConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// CollaboratorConfig settings of the simulated text-generation backend.
type CollaboratorConfig struct {
	Delay        time.Duration `mapstructure:"delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	BlockedTerms []string      `mapstructure:"blocked_terms"`
}

// BillingConfig delays of the simulated payment and verification flows.
type BillingConfig struct {
	GatewayDelay      time.Duration `mapstructure:"gateway_delay"`
	VerificationDelay time.Duration `mapstructure:"verification_delay"`
}

// AuditConfig batch audit settings.
type AuditConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LogConfig logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment.
// Precedence: env > config file > .env > defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Auth.hashAdminPassword(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.body_limit", 4<<20)

	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.key_prefix", "bjj_")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "federation")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Sao_Paulo")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "12h")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.admin_email", "admin@federacao.local")
	v.SetDefault("auth.admin_name", "Administrador")

	v.SetDefault("notify.ttl", "8s")

	v.SetDefault("collaborator.delay", "600ms")
	v.SetDefault("collaborator.timeout", "10s")
	v.SetDefault("collaborator.blocked_terms", []string{})

	v.SetDefault("billing.gateway_delay", "2500ms")
	v.SetDefault("billing.verification_delay", "1500ms")

	v.SetDefault("audit.concurrency", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be within 1-65535")
	}
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	case StorageRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("invalid config: storage.driver redis requires redis.addr")
		}
	default:
		return fmt.Errorf("invalid config: unknown storage.driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Auth.AdminEmail) == "" {
		return fmt.Errorf("invalid config: auth.admin_email is required")
	}
	if c.Auth.AdminPassword == "" && len(c.Auth.AdminPasswordHash) == 0 {
		return fmt.Errorf("invalid config: auth.admin_password is required")
	}
	if c.Notify.TTL <= 0 {
		return fmt.Errorf("invalid config: notify.ttl must be positive")
	}
	return nil
}

func (a *AuthConfig) hashAdminPassword() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(a.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	a.AdminPasswordHash = hash
	a.AdminPassword = ""
	a.AdminEmail = strings.ToLower(strings.TrimSpace(a.AdminEmail))
	return nil
}
