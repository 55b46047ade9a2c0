package config

const (
	EnvPrefix = "pharmaline"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv = "PHARMALINE_APP_ENV"
	EnvPort   = "PHARMALINE_APP_PORT"

	EnvDBDSN  = "PHARMALINE_DB_DSN"
	EnvDBHost = "PHARMALINE_DB_HOST"
	EnvDBUser = "PHARMALINE_DB_USER"
	EnvDBName = "PHARMALINE_DB_NAME"

	EnvRedisURL = "PHARMALINE_REDIS_URL"

	EnvGeminiAPIKey = "PHARMALINE_GEMINI_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
