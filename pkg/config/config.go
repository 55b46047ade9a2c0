package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Gemini        GeminiConfig
	Ledger        LedgerConfig
	ChatRateLimit ChatRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"PHARMALINE_APP_ENV" required:"true"`
	Port         string `envconfig:"PHARMALINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PHARMALINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHARMALINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PHARMALINE_DB_DSN"`
	Driver string `envconfig:"PHARMALINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PHARMALINE_DB_HOST"`
	LegacyPort     int    `envconfig:"PHARMALINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PHARMALINE_DB_USER"`
	LegacyPassword string `envconfig:"PHARMALINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PHARMALINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PHARMALINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHARMALINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHARMALINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHARMALINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHARMALINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHARMALINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PHARMALINE_REDIS_ADDR"`
	Password     string        `envconfig:"PHARMALINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHARMALINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHARMALINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHARMALINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHARMALINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHARMALINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHARMALINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// GeminiConfig drives the text classification fallback of the interpreter.
type GeminiConfig struct {
	APIKey         string        `envconfig:"PHARMALINE_GEMINI_API_KEY"`
	Endpoint       string        `envconfig:"PHARMALINE_GEMINI_ENDPOINT" default:"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"`
	ConnectTimeout time.Duration `envconfig:"PHARMALINE_GEMINI_CONNECT_TIMEOUT" default:"10s"`
	RequestTimeout time.Duration `envconfig:"PHARMALINE_GEMINI_REQUEST_TIMEOUT" default:"30s"`
}

// LedgerConfig bounds event-store I/O issued per interpreter call.
type LedgerConfig struct {
	QueryTimeout  time.Duration `envconfig:"PHARMALINE_LEDGER_QUERY_TIMEOUT" default:"10s"`
	AppendTimeout time.Duration `envconfig:"PHARMALINE_LEDGER_APPEND_TIMEOUT" default:"10s"`
}

type ChatRateLimitConfig struct {
	Window  time.Duration `envconfig:"PHARMALINE_CHAT_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"PHARMALINE_CHAT_RATE_LIMIT_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PHARMALINE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
