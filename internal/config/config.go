package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Module provides the application Config.
var Module = fx.Module("config",
	fx.Provide(Load),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string
	LogFormat   string
	HTTPAddr    string

	CORSAllowedOrigins []string

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

	Expense    ExpenseConfig
	Attachment AttachmentConfig

	MetricsEnabled   bool
	SeedExpenseTypes bool

	OTLPEndpoint string
	OTLPProtocol string
}

// ExpenseConfig carries defaults for the expense invoice engine.
type ExpenseConfig struct {
	DefaultCurrency          string
	CombineRemarksSeparator  string
	ExpenseTypeLookupEnabled bool
}

type AttachmentConfig struct {
	BaseDir string
}

// Load loads configuration from environment variables, an optional .env
// file and an optional CONFIG_FILE.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("config file %s not loaded: %v", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_SERVICE", "tradeledger")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("HTTP_ADDR", "127.0.0.1:8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("DATABASE_TYPE", "sqlite")
	v.SetDefault("DATABASE_PATH", "tradeledger.db")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "tradeledger")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 2)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 4)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("DEFAULT_CURRENCY", "INR")
	v.SetDefault("COMBINE_REMARKS_SEPARATOR", "; ")
	v.SetDefault("EXPENSE_TYPE_LOOKUP_ENABLED", true)
	v.SetDefault("ATTACHMENT_DIR", "attachments")

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SEED_EXPENSE_TYPES", true)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
}

func fromViper(v *viper.Viper) Config {
	return Config{
		AppName:     strings.TrimSpace(v.GetString("APP_SERVICE")),
		AppVersion:  strings.TrimSpace(v.GetString("APP_VERSION")),
		Environment: strings.TrimSpace(v.GetString("ENVIRONMENT")),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFormat:   strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
		HTTPAddr:    strings.TrimSpace(v.GetString("HTTP_ADDR")),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		DBType:            strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_TYPE"))),
		DBPath:            strings.TrimSpace(v.GetString("DATABASE_PATH")),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetInt("DATABASE_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetInt("DATABASE_CONN_MAX_IDLE_TIME"),

		Expense: ExpenseConfig{
			DefaultCurrency:          strings.ToUpper(strings.TrimSpace(v.GetString("DEFAULT_CURRENCY"))),
			CombineRemarksSeparator:  v.GetString("COMBINE_REMARKS_SEPARATOR"),
			ExpenseTypeLookupEnabled: v.GetBool("EXPENSE_TYPE_LOOKUP_ENABLED"),
		},
		Attachment: AttachmentConfig{
			BaseDir: strings.TrimSpace(v.GetString("ATTACHMENT_DIR")),
		},

		MetricsEnabled:   v.GetBool("METRICS_ENABLED"),
		SeedExpenseTypes: v.GetBool("SEED_EXPENSE_TYPES"),

		OTLPEndpoint: strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPProtocol: strings.ToLower(strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_PROTOCOL"))),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
