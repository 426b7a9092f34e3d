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
	JWT           JWTConfig
	Password      PasswordConfig
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	Notifications NotificationsConfig
	Admin         AdminSeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Notifications.validate(cfg.GCP); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"PMS_APP_ENV" required:"true"`
	Port            string        `envconfig:"PMS_APP_PORT" default:"5000"`
	LogLevel        string        `envconfig:"PMS_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"PMS_LOG_WARN_STACK" default:"false"`
	CORSOrigins     []string      `envconfig:"PMS_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"PMS_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PMS_DB_DSN"`
	Driver string `envconfig:"PMS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PMS_DB_HOST"`
	Port     int    `envconfig:"PMS_DB_PORT" default:"5432"`
	User     string `envconfig:"PMS_DB_USER"`
	Password string `envconfig:"PMS_DB_PASSWORD"`
	Name     string `envconfig:"PMS_DB_NAME"`
	SSLMode  string `envconfig:"PMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// LockTimeout bounds how long the approval transaction waits on row locks.
	LockTimeout time.Duration `envconfig:"PMS_DB_LOCK_TIMEOUT" default:"5s"`
}

// IsSQLite reports whether the sqlite driver is configured.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PMS_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"PMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PMS_JWT_ISSUER" default:"rest-pms-system"`
	ExpirationMinutes int    `envconfig:"PMS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PMS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PMS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PMS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PMS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PMS_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	Length int           `envconfig:"PMS_OTP_LENGTH" default:"6"`
	TTL    time.Duration `envconfig:"PMS_OTP_TTL" default:"5m"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PMS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PMS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PMS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PMS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PMS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PMS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	OTPWindow          time.Duration `envconfig:"PMS_AUTH_RATE_LIMIT_OTP_WINDOW" default:"5m"`
	OTPIPLimit         int           `envconfig:"PMS_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"PMS_AUTO_MIGRATE" default:"false"`
	MetricsEnabled bool `envconfig:"PMS_METRICS_ENABLED" default:"true"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PMS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PMS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PMS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type NotificationsConfig struct {
	// Driver is "log" (emails are only logged) or "pubsub".
	Driver      string        `envconfig:"PMS_NOTIFICATIONS_DRIVER" default:"log"`
	EmailTopic  string        `envconfig:"PMS_PUBSUB_EMAIL_TOPIC" default:"pms-email-jobs"`
	FromAddress string        `envconfig:"PMS_EMAIL_FROM" default:"no-reply@parking.local"`
	SendTimeout time.Duration `envconfig:"PMS_EMAIL_SEND_TIMEOUT" default:"10s"`
}

func (n NotificationsConfig) UsesPubSub() bool {
	return strings.EqualFold(n.Driver, NotificationDriverPubSub)
}

func (n NotificationsConfig) validate(gcp GCPConfig) error {
	switch strings.ToLower(n.Driver) {
	case NotificationDriverLog:
		return nil
	case NotificationDriverPubSub:
		if gcp.ProjectID == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvGCPProjectID, EnvNotificationsDriver, NotificationDriverPubSub)
		}
		if n.EmailTopic == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvPubSubEmailTopic, EnvNotificationsDriver, NotificationDriverPubSub)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvNotificationsDriver, n.Driver)
	}
}

type AdminSeedConfig struct {
	Name     string `envconfig:"PMS_ADMIN_NAME" default:"System Admin"`
	Email    string `envconfig:"PMS_ADMIN_EMAIL" default:"admin@example.com"`
	Password string `envconfig:"PMS_ADMIN_PASSWORD"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:pms.db?cache=shared"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
