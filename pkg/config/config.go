package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Guest        GuestConfig
	Mailer       MailerConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RELOVED_APP_ENV" required:"true"`
	Port         string `envconfig:"RELOVED_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RELOVED_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RELOVED_LOG_WARN_STACK" default:"false"`
	Currency     string `envconfig:"RELOVED_CURRENCY" default:"EUR"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RELOVED_DB_DSN"`
	Driver string `envconfig:"RELOVED_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"RELOVED_DB_HOST"`
	Port     int    `envconfig:"RELOVED_DB_PORT" default:"5432"`
	User     string `envconfig:"RELOVED_DB_USER"`
	Password string `envconfig:"RELOVED_DB_PASSWORD"`
	Name     string `envconfig:"RELOVED_DB_NAME"`
	SSLMode  string `envconfig:"RELOVED_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RELOVED_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RELOVED_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RELOVED_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RELOVED_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either RELOVED_DB_DSN or host/user/name settings are required")
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	query := dsn.Query()
	query.Set("sslmode", d.SSLMode)
	dsn.RawQuery = query.Encode()
	d.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"RELOVED_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RELOVED_REDIS_ADDR"`
	Password     string        `envconfig:"RELOVED_REDIS_PASSWORD"`
	DB           int           `envconfig:"RELOVED_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RELOVED_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RELOVED_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RELOVED_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RELOVED_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RELOVED_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RELOVED_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RELOVED_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"RELOVED_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"RELOVED_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RELOVED_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RELOVED_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RELOVED_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RELOVED_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RELOVED_ARGON_KEY_LEN" default:"32"`
}

// GuestConfig bounds anonymous cart/likes blobs kept in Redis.
type GuestConfig struct {
	CollectionTTL time.Duration `envconfig:"RELOVED_GUEST_COLLECTION_TTL" default:"720h"`
}

type MailerConfig struct {
	FunctionURL string        `envconfig:"RELOVED_MAILER_FUNCTION_URL"`
	APIKey      string        `envconfig:"RELOVED_MAILER_API_KEY"`
	OrderTo     string        `envconfig:"RELOVED_MAILER_ORDER_TO"`
	Timeout     time.Duration `envconfig:"RELOVED_MAILER_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RELOVED_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RELOVED_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"RELOVED_CORS_ALLOWED_ORIGINS" default:"*"`
}
