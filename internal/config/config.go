package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/watter46/footics-sub000/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

const (
	envPrefix     = "FOOTICS_"
	configFileEnv = "FOOTICS_CONFIG"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv          string        `koanf:"app_env"`
	ServiceName     string        `koanf:"service_name"`
	ServiceVersion  string        `koanf:"service_version"`
	HTTPAddr        string        `koanf:"http_addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	LogLevelName    string        `koanf:"log_level"`
	LogLevel        logging.Level `koanf:"-"`

	StoreDriver       string        `koanf:"store_driver"`
	DBURL             string        `koanf:"db_url"`
	DBAutoMigrate     bool          `koanf:"db_auto_migrate"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns"`
	DBMaxIdleConns    int           `koanf:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`

	CacheEnabled       bool          `koanf:"cache_enabled"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`

	MetricsEnabled         bool          `koanf:"metrics_enabled"`
	UptraceEnabled         bool          `koanf:"uptrace_enabled"`
	UptraceDSN             string        `koanf:"uptrace_dsn"`
	PyroscopeEnabled       bool          `koanf:"pyroscope_enabled"`
	PyroscopeServerAddress string        `koanf:"pyroscope_server_address"`
	PyroscopeAppName       string        `koanf:"pyroscope_app_name"`
	PyroscopeUploadRate    time.Duration `koanf:"pyroscope_upload_rate"`
	PprofEnabled           bool          `koanf:"pprof_enabled"`
	PprofAddr              string        `koanf:"pprof_addr"`

	ReconcileOnStart bool `koanf:"reconcile_on_start"`
	ReconcileWorkers int  `koanf:"reconcile_workers"`
}

// Defaults returns the configuration used when nothing overrides a key.
func Defaults() Config {
	return Config{
		AppEnv:              EnvDev,
		ServiceName:         "footics",
		ServiceVersion:      "dev",
		HTTPAddr:            ":8080",
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        15 * time.Second,
		ShutdownTimeout:     10 * time.Second,
		LogLevelName:        "info",
		StoreDriver:         StoreSQLite,
		DBURL:               "file:footics.db",
		DBAutoMigrate:       true,
		DBMaxOpenConns:      10,
		DBMaxIdleConns:      5,
		DBConnMaxLifetime:   30 * time.Minute,
		CacheEnabled:        true,
		CacheTTL:            5 * time.Minute,
		CORSAllowedOrigins:  []string{"*"},
		MetricsEnabled:      true,
		PyroscopeAppName:    "footics",
		PyroscopeUploadRate: 15 * time.Second,
		PprofAddr:           ":6060",
		ReconcileOnStart:    true,
		ReconcileWorkers:    4,
	}
}

// Load layers, from lowest to highest precedence: Defaults, the YAML file
// named by FOOTICS_CONFIG, and FOOTICS_* environment variables.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	appEnv, err := parseAppEnv(c.AppEnv)
	if err != nil {
		return err
	}
	c.AppEnv = appEnv

	level, err := logging.ParseLevel(c.LogLevelName)
	if err != nil {
		return fmt.Errorf("parse FOOTICS_LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	c.ServiceName = strings.TrimSpace(c.ServiceName)
	if c.ServiceName == "" {
		return fmt.Errorf("FOOTICS_SERVICE_NAME must not be empty")
	}
	c.HTTPAddr = strings.TrimSpace(c.HTTPAddr)
	if c.HTTPAddr == "" {
		return fmt.Errorf("FOOTICS_HTTP_ADDR must not be empty")
	}

	for name, d := range map[string]time.Duration{
		"FOOTICS_READ_TIMEOUT":     c.ReadTimeout,
		"FOOTICS_WRITE_TIMEOUT":    c.WriteTimeout,
		"FOOTICS_SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.DBURL = strings.TrimSpace(c.DBURL)
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if c.DBURL == "" {
			return fmt.Errorf("FOOTICS_DB_URL is required when FOOTICS_STORE_DRIVER=%s", c.StoreDriver)
		}
		if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 {
			return fmt.Errorf("FOOTICS_DB_MAX_OPEN_CONNS and FOOTICS_DB_MAX_IDLE_CONNS must be >= 0")
		}
	default:
		return fmt.Errorf("invalid FOOTICS_STORE_DRIVER %q: valid values are %s, %s, %s",
			c.StoreDriver, StoreMemory, StoreSQLite, StorePostgres)
	}

	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("FOOTICS_CACHE_TTL must be > 0")
	}
	c.CORSAllowedOrigins = splitCSV(c.CORSAllowedOrigins)

	c.UptraceDSN = strings.TrimSpace(c.UptraceDSN)
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("FOOTICS_UPTRACE_DSN is required when FOOTICS_UPTRACE_ENABLED=true")
	}

	c.PyroscopeServerAddress = strings.TrimSpace(c.PyroscopeServerAddress)
	if c.PyroscopeEnabled {
		if c.PyroscopeServerAddress == "" {
			return fmt.Errorf("FOOTICS_PYROSCOPE_SERVER_ADDRESS is required when FOOTICS_PYROSCOPE_ENABLED=true")
		}
		if c.PyroscopeUploadRate <= 0 {
			return fmt.Errorf("FOOTICS_PYROSCOPE_UPLOAD_RATE must be > 0")
		}
	}
	if strings.TrimSpace(c.PyroscopeAppName) == "" {
		c.PyroscopeAppName = c.ServiceName
	}

	c.PprofAddr = strings.TrimSpace(c.PprofAddr)
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("FOOTICS_PPROF_ADDR is required when FOOTICS_PPROF_ENABLED=true")
	}

	if c.ReconcileWorkers < 1 {
		return fmt.Errorf("FOOTICS_RECONCILE_WORKERS must be >= 1")
	}

	return nil
}

// splitCSV flattens comma-separated items. An env override arrives as a
// single item holding the whole list.
func splitCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			item := strings.TrimSpace(part)
			if item == "" {
				continue
			}
			out = append(out, item)
		}
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid FOOTICS_APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
