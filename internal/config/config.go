package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewStoreConfigHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBPath            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBMetrics         bool

	SnowflakeNode int64

	DocumentNumberStrategy string

	Inventory InventoryConfig
	Telemetry TelemetryConfig
}

// InventoryConfig decides, per call site, whether a stock decrement may
// leave a product below zero.
type InventoryConfig struct {
	SaleAllowNegative           bool
	PurchaseReturnAllowNegative bool
}

// TelemetryConfig is the raw logging and OTLP export setup. Export is
// off unless OTEL_ENABLED is set.
type TelemetryConfig struct {
	LogLevel      string
	LogFormat     string
	LogFile       string
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

const (
	DocumentNumberDateSequence = "date_sequence"
	DocumentNumberULID         = "ulid"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:                getenv("APP_SERVICE", "retailbook"),
		AppVersion:             getenv("APP_VERSION", "0.1.0"),
		Environment:            getenv("ENVIRONMENT", "development"),
		HTTPAddr:               getenv("HTTP_ADDR", ":8080"),
		DBType:                 strings.ToLower(getenv("DATABASE_TYPE", "sqlite")),
		DBPath:                 getenv("DATABASE_PATH", "retailbook.db"),
		DBHost:                 getenv("DATABASE_HOST", "localhost"),
		DBPort:                 getenv("DATABASE_PORT", "5432"),
		DBName:                 getenv("DATABASE_NAME", "retailbook"),
		DBUser:                 getenv("DATABASE_USER", "postgres"),
		DBPassword:             getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:              getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:          int(getenvInt64("DATABASE_MAX_IDLE_CONN", 0)),
		DBMaxOpenConn:          int(getenvInt64("DATABASE_MAX_OPEN_CONN", 0)),
		DBConnMaxLifetime:      int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 0)),
		DBConnMaxIdleTime:      int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 0)),
		DBMetrics:              getenvBool("DATABASE_METRICS", false),
		SnowflakeNode:          getenvInt64("SNOWFLAKE_NODE", 1),
		DocumentNumberStrategy: normalizeStrategy(getenv("DOCUMENT_NUMBER_STRATEGY", DocumentNumberDateSequence)),
		Inventory: InventoryConfig{
			SaleAllowNegative:           getenvBool("INVENTORY_SALE_ALLOW_NEGATIVE", false),
			PurchaseReturnAllowNegative: getenvBool("INVENTORY_PURCHASE_RETURN_ALLOW_NEGATIVE", true),
		},
		Telemetry: TelemetryConfig{
			LogLevel:      getenv("LOG_LEVEL", "info"),
			LogFormat:     getenv("LOG_FORMAT", "json"),
			LogFile:       getenv("LOG_FILE", ""),
			Enabled:       getenvBool("OTEL_ENABLED", false),
			Endpoint:      getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Protocol:      getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
	}

	return cfg
}

func normalizeStrategy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DocumentNumberULID:
		return DocumentNumberULID
	default:
		return DocumentNumberDateSequence
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
