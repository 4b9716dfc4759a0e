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
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Cron         CronConfig
	Store        StoreConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Outbox       OutboxConfig
	Analytics    AnalyticsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FURNISTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"FURNISTORE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FURNISTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FURNISTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FURNISTORE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN        string `envconfig:"FURNISTORE_DB_DSN"`
	Driver     string `envconfig:"FURNISTORE_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"FURNISTORE_SQLITE_PATH" default:"furnistore.db"`

	LegacyHost     string `envconfig:"FURNISTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"FURNISTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FURNISTORE_DB_USER"`
	LegacyPassword string `envconfig:"FURNISTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FURNISTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FURNISTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FURNISTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FURNISTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FURNISTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURNISTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"FURNISTORE_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FURNISTORE_REDIS_URL"`
	Address      string        `envconfig:"FURNISTORE_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"FURNISTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FURNISTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FURNISTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FURNISTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FURNISTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FURNISTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FURNISTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint is configured. Setting
// FURNISTORE_REDIS_ADDR to an empty value without a URL turns redis off.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FURNISTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FURNISTORE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FURNISTORE_CORS_ALLOWED_ORIGINS" default:"*"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FURNISTORE_CRON_INTERVAL" default:"24h"`
}

// StoreConfig holds the business knobs of the sweeps and the idempotency layer.
type StoreConfig struct {
	InactivityWindow time.Duration `envconfig:"FURNISTORE_INACTIVITY_WINDOW" default:"8760h"`
	VIPMinOrders     int           `envconfig:"FURNISTORE_VIP_MIN_ORDERS" default:"5"`
	IdempotencyTTL   time.Duration `envconfig:"FURNISTORE_IDEMPOTENCY_TTL" default:"24h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FURNISTORE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FURNISTORE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// PubSubConfig names the topics the outbox publisher writes to and the
// subscription the analytics worker reads from.
type PubSubConfig struct {
	OrdersTopic           string `envconfig:"FURNISTORE_PUBSUB_ORDERS_TOPIC" default:"furnistore-orders"`
	CustomersTopic        string `envconfig:"FURNISTORE_PUBSUB_CUSTOMERS_TOPIC" default:"furnistore-customers"`
	AnalyticsSubscription string `envconfig:"FURNISTORE_PUBSUB_ANALYTICS_SUBSCRIPTION" default:"furnistore-analytics"`
}

type BigQueryConfig struct {
	Dataset          string `envconfig:"FURNISTORE_BIGQUERY_DATASET" default:"furnistore"`
	SalesEventsTable string `envconfig:"FURNISTORE_BIGQUERY_SALES_EVENTS_TABLE" default:"sales_events"`
	CreateTables     bool   `envconfig:"FURNISTORE_BIGQUERY_CREATE_TABLES" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FURNISTORE_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FURNISTORE_OUTBOX_POLL_INTERVAL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FURNISTORE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	// Retention is how long published rows are kept before the cron sweep prunes them.
	Retention time.Duration `envconfig:"FURNISTORE_OUTBOX_RETENTION" default:"720h"`
}

type AnalyticsConfig struct {
	ProcessedTTL time.Duration `envconfig:"FURNISTORE_ANALYTICS_PROCESSED_TTL" default:"168h"`
	BatchSize    int           `envconfig:"FURNISTORE_ANALYTICS_BATCH_SIZE" default:"1"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
