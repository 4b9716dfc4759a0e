package config

const (
	EnvPrefix = "FURNISTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "FURNISTORE_APP_ENV"
	EnvPort        = "FURNISTORE_APP_PORT"
	EnvLogLevel    = "FURNISTORE_LOG_LEVEL"
	EnvDBDSN       = "FURNISTORE_DB_DSN"
	EnvDBHost      = "FURNISTORE_DB_HOST"
	EnvDBUser      = "FURNISTORE_DB_USER"
	EnvDBPassword  = "FURNISTORE_DB_PASSWORD"
	EnvDBName      = "FURNISTORE_DB_NAME"
	EnvRedisURL    = "FURNISTORE_REDIS_URL"
	EnvUseSQLite   = "FURNISTORE_USE_SQLITE"
	EnvAutoMigrate = "FURNISTORE_AUTO_MIGRATE"
	EnvCronEvery   = "FURNISTORE_CRON_INTERVAL"
	EnvVIPMin      = "FURNISTORE_VIP_MIN_ORDERS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
