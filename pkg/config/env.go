package config

const (
	EnvPrefix = "PMS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	NotificationDriverLog    = "log"
	NotificationDriverPubSub = "pubsub"
)

const (
	EnvAppEnv              = "PMS_APP_ENV"
	EnvPort                = "PMS_APP_PORT"
	EnvDBDSN               = "PMS_DB_DSN"
	EnvDBDriver            = "PMS_DB_DRIVER"
	EnvDBHost              = "PMS_DB_HOST"
	EnvDBUser              = "PMS_DB_USER"
	EnvDBName              = "PMS_DB_NAME"
	EnvDBPassword          = "PMS_DB_PASSWORD"
	EnvRedisURL            = "PMS_REDIS_URL"
	EnvJWTSecret           = "PMS_JWT_SECRET"
	EnvJWTExpMins          = "PMS_JWT_EXPIRATION_MINUTES"
	EnvOTPTTL              = "PMS_OTP_TTL"
	EnvGCPProjectID        = "PMS_GCP_PROJECT_ID"
	EnvNotificationsDriver = "PMS_NOTIFICATIONS_DRIVER"
	EnvPubSubEmailTopic    = "PMS_PUBSUB_EMAIL_TOPIC"
	EnvAdminPassword       = "PMS_ADMIN_PASSWORD"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
