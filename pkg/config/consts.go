package config

const (
	EnvPrefix = "storefront"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "STOREFRONT_APP_ENV"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
