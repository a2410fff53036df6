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
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Cron         CronConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PURCHASABLES_APP_ENV" required:"true"`
	Port         string `envconfig:"PURCHASABLES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PURCHASABLES_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PURCHASABLES_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PURCHASABLES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PURCHASABLES_DB_DSN"`
	Driver string `envconfig:"PURCHASABLES_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PURCHASABLES_DB_HOST"`
	Port     int    `envconfig:"PURCHASABLES_DB_PORT" default:"5432"`
	User     string `envconfig:"PURCHASABLES_DB_USER"`
	Password string `envconfig:"PURCHASABLES_DB_PASSWORD"`
	Name     string `envconfig:"PURCHASABLES_DB_NAME"`
	SSLMode  string `envconfig:"PURCHASABLES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PURCHASABLES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PURCHASABLES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PURCHASABLES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PURCHASABLES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PURCHASABLES_REDIS_URL"`
	Address      string        `envconfig:"PURCHASABLES_REDIS_ADDR"`
	Password     string        `envconfig:"PURCHASABLES_REDIS_PASSWORD"`
	DB           int           `envconfig:"PURCHASABLES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PURCHASABLES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PURCHASABLES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PURCHASABLES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PURCHASABLES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PURCHASABLES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type PricingConfig struct {
	// CurrentStore is the store handle used when a request does not name one.
	// Empty means the primary store.
	CurrentStore    string        `envconfig:"PURCHASABLES_CURRENT_STORE"`
	CatalogCacheTTL time.Duration `envconfig:"PURCHASABLES_CATALOG_CACHE_TTL" default:"5m"`
	CatalogCache    bool          `envconfig:"PURCHASABLES_CATALOG_CACHE_ENABLED" default:"true"`
}

func (p PricingConfig) validate() error {
	if p.CatalogCache && p.CatalogCacheTTL <= 0 {
		return fmt.Errorf("%s must be positive when the catalog cache is enabled", EnvCatalogCacheTTL)
	}
	return nil
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"PURCHASABLES_CRON_INTERVAL" default:"1h"`
	LockTTL               time.Duration `envconfig:"PURCHASABLES_CRON_LOCK_TTL" default:"10m"`
	CatalogPriceRetention time.Duration `envconfig:"PURCHASABLES_CATALOG_PRICE_RETENTION" default:"720h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PURCHASABLES_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PURCHASABLES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PURCHASABLES_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if db.DSN != "" {
		return nil
	}
	if sqlite {
		db.DSN = "file:purchasables.db?cache=shared"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
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
