package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "PURCHASABLES_APP_ENV"
	EnvPort            = "PURCHASABLES_APP_PORT"
	EnvLogFormat       = "PURCHASABLES_LOG_FORMAT"
	EnvDBDSN           = "PURCHASABLES_DB_DSN"
	EnvDBHost          = "PURCHASABLES_DB_HOST"
	EnvDBUser          = "PURCHASABLES_DB_USER"
	EnvDBPassword      = "PURCHASABLES_DB_PASSWORD"
	EnvDBName          = "PURCHASABLES_DB_NAME"
	EnvRedisURL        = "PURCHASABLES_REDIS_URL"
	EnvCurrentStore    = "PURCHASABLES_CURRENT_STORE"
	EnvCatalogCacheTTL = "PURCHASABLES_CATALOG_CACHE_TTL"
	EnvUseSQLite       = "PURCHASABLES_USE_SQLITE"
	EnvCronInterval    = "PURCHASABLES_CRON_INTERVAL"
	EnvCORSOrigins     = "PURCHASABLES_CORS_ALLOWED_ORIGINS"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
