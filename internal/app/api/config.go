package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.temporal.io/sdk/client"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/assets"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/database"
)

// Config carries the settings of the API and worker processes. Keys are the lower-cased
// environment variable names, so a YAML file at CONFIG_FILE uses e.g. "db_host".
type Config struct {
	Port   string `koanf:"port"`
	AppEnv string `koanf:"app_env"`

	DBDriver          string        `koanf:"db_driver"`
	DatabaseDSN       string        `koanf:"database_dsn"`
	DBHost            string        `koanf:"db_host"`
	DBPort            int           `koanf:"db_port"`
	DBUser            string        `koanf:"db_user"`
	DBPass            string        `koanf:"db_pass"`
	DBName            string        `koanf:"db_name"`
	DBSSLCA           string        `koanf:"db_ssl_ca"`
	DBConnectAttempts int           `koanf:"db_connect_attempts"`
	DBConnectDelay    time.Duration `koanf:"db_connect_delay"`
	DBDisabled        bool          `koanf:"db_disabled"`
	MigrateOnStart    bool          `koanf:"migrate_on_start"`

	S3Bucket     string   `koanf:"s3_bucket"`
	S3Region     string   `koanf:"s3_region"`
	ImageBaseURL string   `koanf:"image_base_url"`
	CORSOrigins  []string `koanf:"cors_origins"`

	KafkaBrokers    []string      `koanf:"kafka_brokers"`
	KafkaTopic      string        `koanf:"kafka_topic"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisPassword   string        `koanf:"redis_password"`
	CatalogCacheTTL time.Duration `koanf:"catalog_cache_ttl"`

	TemporalAddress   string `koanf:"temporal_address"`
	TemporalNamespace string `koanf:"temporal_namespace"`
	TemporalDisabled  bool   `koanf:"temporal_disabled"`

	LogFile         string  `koanf:"log_file"`
	OTelSampleRatio float64 `koanf:"otel_sample_ratio"`
}

var defaults = map[string]any{
	"port":                "3001",
	"db_driver":           string(database.DriverMySQL),
	"db_host":             "localhost",
	"db_user":             "root",
	"db_name":             "mikes_macaroon_market",
	"db_connect_attempts": 2,
	"db_connect_delay":    "3s",
	"migrate_on_start":    true,
	"kafka_topic":         "orders.events",
	"catalog_cache_ttl":   "5m",
	"temporal_address":    client.DefaultHostPort,
	"temporal_namespace":  client.DefaultNamespace,
	"otel_sample_ratio":   1.0,
}

var listKeys = map[string]bool{"cors_origins": true, "kafka_brokers": true}

// LoadConfig layers defaults, the optional CONFIG_FILE YAML, then non-empty environment
// variables, and validates the result.
func LoadConfig() (Config, error) {
	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("default %s: %w", key, err)
		}
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	known := make(map[string]bool)
	for _, key := range k.Keys() {
		known[key] = true
	}
	for _, key := range optionalKeys {
		known[key] = true
	}
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(key)
		value = strings.TrimSpace(value)
		if !known[key] || value == "" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	// NODE_ENV is honoured when APP_ENV is absent.
	if !k.Exists("app_env") {
		appEnv := "production"
		if v := strings.TrimSpace(os.Getenv("NODE_ENV")); v != "" {
			appEnv = v
		}
		_ = k.Set("app_env", appEnv)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// optionalKeys have no default but may be set through the environment.
var optionalKeys = []string{
	"app_env", "database_dsn", "db_port", "db_pass", "db_ssl_ca", "db_disabled",
	"s3_bucket", "s3_region", "image_base_url", "cors_origins",
	"kafka_brokers", "redis_addr", "redis_password", "temporal_disabled", "log_file",
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if !database.Driver(c.DBDriver).Valid() {
		return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.DBDriver)
	}
	if c.DBConnectAttempts < 1 {
		return fmt.Errorf("DB_CONNECT_ATTEMPTS must be at least 1")
	}
	if c.DBConnectDelay < 0 {
		return fmt.Errorf("DB_CONNECT_DELAY must not be negative")
	}
	if c.CatalogCacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must not be negative")
	}
	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0,1], got %v", c.OTelSampleRatio)
	}
	return nil
}

// Development reports whether error details may be exposed to clients.
func (c Config) Development() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) Database() database.Config {
	return database.Config{
		Driver:   database.Driver(c.DBDriver),
		DSN:      c.DatabaseDSN,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPass,
		Name:     c.DBName,
		SSLCA:    c.DBSSLCA,
	}
}

func (c Config) Images() assets.Resolver {
	return assets.Resolver{Bucket: c.S3Bucket, Region: c.S3Region, BaseURL: c.ImageBaseURL}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
