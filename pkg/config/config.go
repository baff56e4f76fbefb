package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Commerce     CommerceConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Reviews      ReviewsConfig
	ReviewWidget ReviewWidgetConfig
	Uploads      UploadsConfig
	Shipping     ShippingConfig
	SendGrid     SendGridConfig
	Resend       ResendConfig
	Content      ContentConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Shipping.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CommerceConfig points the storefront at its upstream commerce backend.
type CommerceConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_COMMERCE_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"STOREFRONT_COMMERCE_API_KEY" required:"true"`
	SiteID  string        `envconfig:"STOREFRONT_COMMERCE_SITE_ID" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_COMMERCE_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig verifies member session tokens minted by the commerce
// backend's OAuth flow. The storefront never issues tokens itself.
type SessionConfig struct {
	Secret string `envconfig:"STOREFRONT_SESSION_SECRET" required:"true"`
	Issuer string `envconfig:"STOREFRONT_SESSION_ISSUER" default:"smallwonder-commerce"`
}

type RateLimitConfig struct {
	Window       time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_WINDOW" default:"1m"`
	RequestLimit int           `envconfig:"STOREFRONT_RATE_LIMIT_REQUESTS" default:"120"`
	ReviewWindow time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_REVIEW_WINDOW" default:"5m"`
	ReviewLimit  int           `envconfig:"STOREFRONT_RATE_LIMIT_REVIEW_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOREFRONT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"STOREFRONT_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"STOREFRONT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"STOREFRONT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"STOREFRONT_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"STOREFRONT_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
}

type ReviewsConfig struct {
	ObjectSuffix string        `envconfig:"STOREFRONT_REVIEWS_OBJECT_SUFFIX" default:"reviews.csv"`
	CacheTTL     time.Duration `envconfig:"STOREFRONT_REVIEWS_CACHE_TTL" default:"2m"`
	DefaultLimit int           `envconfig:"STOREFRONT_REVIEWS_DEFAULT_LIMIT" default:"5"`
	MaxLimit     int           `envconfig:"STOREFRONT_REVIEWS_MAX_LIMIT" default:"50"`
}

// ReviewWidgetConfig configures the third-party review widget API backing
// the alternate review read path.
type ReviewWidgetConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_REVIEW_WIDGET_BASE_URL"`
	APIKey  string        `envconfig:"STOREFRONT_REVIEW_WIDGET_API_KEY"`
	Timeout time.Duration `envconfig:"STOREFRONT_REVIEW_WIDGET_TIMEOUT" default:"8s"`
}

type UploadsConfig struct {
	PathPrefix  string `envconfig:"STOREFRONT_UPLOADS_PATH_PREFIX" default:"review-images"`
	MaxUploadMB int    `envconfig:"STOREFRONT_UPLOADS_MAX_MB" default:"10"`
}

// ShippingConfig carries the flat shipping fee rule: one country pays the
// configured fee, everyone else ships free.
type ShippingConfig struct {
	FeeCountry string `envconfig:"STOREFRONT_SHIPPING_FEE_COUNTRY" default:"IL"`
	FlatFee    string `envconfig:"STOREFRONT_SHIPPING_FLAT_FEE" default:"30"`
}

func (s ShippingConfig) validate() error {
	if strings.TrimSpace(s.FeeCountry) == "" {
		return fmt.Errorf("shipping fee country is required")
	}
	if _, err := decimal.NewFromString(s.FlatFee); err != nil {
		return fmt.Errorf("parsing shipping flat fee %q: %w", s.FlatFee, err)
	}
	return nil
}

// Fee returns the configured flat fee. Load validates the value, so the
// zero fallback only covers an unvalidated Config literal.
func (s ShippingConfig) Fee() decimal.Decimal {
	fee, err := decimal.NewFromString(s.FlatFee)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

type SendGridConfig struct {
	APIKey      string `envconfig:"STOREFRONT_SENDGRID_API_KEY"`
	FromEmail   string `envconfig:"STOREFRONT_SENDGRID_FROM_EMAIL" default:"support@smallwonder.shop"`
	SupportTo   string `envconfig:"STOREFRONT_SENDGRID_SUPPORT_TO" default:"tickets@smallwonder.shop"`
	SupportName string `envconfig:"STOREFRONT_SENDGRID_SUPPORT_NAME" default:"smallwonder support"`
}

type ResendConfig struct {
	APIKey    string `envconfig:"STOREFRONT_RESEND_API_KEY"`
	FromEmail string `envconfig:"STOREFRONT_RESEND_FROM_EMAIL" default:"hello@smallwonder.shop"`
}

type ContentConfig struct {
	BlogDir string `envconfig:"STOREFRONT_CONTENT_BLOG_DIR" default:"content/blog"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
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
