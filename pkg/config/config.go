package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SWIGEPTO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	DB       DBConfig
	Redis    RedisConfig
	Sessions SessionsConfig
	Pricing  PricingConfig
	Orders   OrdersConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Orders.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sessions.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SWIGEPTO_APP_ENV" default:"dev"`
	Port         string `envconfig:"SWIGEPTO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SWIGEPTO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SWIGEPTO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at an optional catalog override file. When Path is
// empty the embedded default catalog is used.
type CatalogConfig struct {
	Path string `envconfig:"SWIGEPTO_CATALOG_PATH"`
}

type DBConfig struct {
	DSN    string `envconfig:"SWIGEPTO_DB_DSN" default:"swigepto.db"`
	Driver string `envconfig:"SWIGEPTO_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"SWIGEPTO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SWIGEPTO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SWIGEPTO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SWIGEPTO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SWIGEPTO_REDIS_URL"`
	Address      string        `envconfig:"SWIGEPTO_REDIS_ADDR"`
	Password     string        `envconfig:"SWIGEPTO_REDIS_PASSWORD"`
	DB           int           `envconfig:"SWIGEPTO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SWIGEPTO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SWIGEPTO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SWIGEPTO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SWIGEPTO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SWIGEPTO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionsConfig struct {
	Backend string        `envconfig:"SWIGEPTO_SESSIONS_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"SWIGEPTO_SESSIONS_TTL" default:"2h"`
}

func (s SessionsConfig) validate() error {
	switch strings.ToLower(s.Backend) {
	case "memory", "redis":
		return nil
	}
	return fmt.Errorf("unknown sessions backend %q", s.Backend)
}

// PricingConfig carries the delivery fee rules. The defaults reproduce the
// launch pricing: ₹20 fee waived at ₹199.
type PricingConfig struct {
	DeliveryFee           int `envconfig:"SWIGEPTO_PRICING_DELIVERY_FEE" default:"20"`
	FreeDeliveryThreshold int `envconfig:"SWIGEPTO_PRICING_FREE_DELIVERY_THRESHOLD" default:"199"`
}

type OrdersConfig struct {
	Backend  string `envconfig:"SWIGEPTO_ORDERS_BACKEND" default:"gorm"`
	IDPrefix string `envconfig:"SWIGEPTO_ORDERS_ID_PREFIX" default:"SWP"`
	FilePath string `envconfig:"SWIGEPTO_ORDERS_FILE_PATH" default:"orders.json"`
	History  int    `envconfig:"SWIGEPTO_ORDERS_HISTORY_LIMIT" default:"3"`
}

func (o OrdersConfig) validate() error {
	switch strings.ToLower(o.Backend) {
	case "gorm", "file":
	default:
		return fmt.Errorf("unknown orders backend %q", o.Backend)
	}
	if o.IDPrefix == "" {
		return fmt.Errorf("order id prefix is required")
	}
	return nil
}
