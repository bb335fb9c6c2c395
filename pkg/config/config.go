package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Billing      BillingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"NEWSROUTE_APP_ENV" required:"true"`
	Port         string `envconfig:"NEWSROUTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NEWSROUTE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NEWSROUTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"NEWSROUTE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"NEWSROUTE_DB_DSN"`
	Driver string `envconfig:"NEWSROUTE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NEWSROUTE_DB_HOST"`
	LegacyPort     int    `envconfig:"NEWSROUTE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NEWSROUTE_DB_USER"`
	LegacyPassword string `envconfig:"NEWSROUTE_DB_PASSWORD"`
	LegacyName     string `envconfig:"NEWSROUTE_DB_NAME"`
	LegacySSLMode  string `envconfig:"NEWSROUTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NEWSROUTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NEWSROUTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NEWSROUTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NEWSROUTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NEWSROUTE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NEWSROUTE_REDIS_ADDR"`
	Password     string        `envconfig:"NEWSROUTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEWSROUTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NEWSROUTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEWSROUTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEWSROUTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEWSROUTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEWSROUTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BillingConfig tunes the billing generator and reminder throttler.
type BillingConfig struct {
	DueDay                int           `envconfig:"NEWSROUTE_BILLING_DUE_DAY" default:"15"`
	ReminderCooldown      time.Duration `envconfig:"NEWSROUTE_BILLING_REMINDER_COOLDOWN" default:"168h"`
	DefaultCommissionRate float64       `envconfig:"NEWSROUTE_BILLING_DEFAULT_COMMISSION_RATE" default:"10"`
	RunLockTTL            time.Duration `envconfig:"NEWSROUTE_BILLING_RUN_LOCK_TTL" default:"30m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"NEWSROUTE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"NEWSROUTE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"NEWSROUTE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"NEWSROUTE_PUBSUB_DOMAIN_TOPIC" default:"nr-domain-events"`
	DomainSubscription string `envconfig:"NEWSROUTE_PUBSUB_DOMAIN_SUBSCRIPTION"`
	ReminderTopic      string `envconfig:"NEWSROUTE_PUBSUB_REMINDER_TOPIC" default:"nr-reminder-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"NEWSROUTE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"NEWSROUTE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"NEWSROUTE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NEWSROUTE_AUTO_MIGRATE" default:"false"`
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
