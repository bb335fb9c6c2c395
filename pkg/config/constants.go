package config

// EnvPrefix namespaces every environment variable the platform reads.
const EnvPrefix = "NEWSROUTE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "NEWSROUTE_APP_ENV"
	EnvPort     = "NEWSROUTE_APP_PORT"
	EnvDBDSN    = "NEWSROUTE_DB_DSN"
	EnvDBHost   = "NEWSROUTE_DB_HOST"
	EnvDBUser   = "NEWSROUTE_DB_USER"
	EnvDBName   = "NEWSROUTE_DB_NAME"
	EnvRedisURL = "NEWSROUTE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
