package configs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"price-estimator-service/internal/core/domain"

	"github.com/joho/godotenv"
)

type RESTconfig struct {
	PORT string
}

type ArtifactsConfig struct {
	ModelPath  string
	ScalerPath string
}

// S3Config - нужен только если артефакты лежат по адресу s3://
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

type PricingConfig struct {
	Band     domain.PriceBand
	Currency string
}

type DBconfig struct {
	URL string
}

type RabbitMQConfig struct {
	URL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type StdoutLogConfig struct {
	Level  string
	Format string // text | json
	File   string // если задан, логи дублируются в файл с ротацией
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	Artifacts    ArtifactsConfig
	S3           S3Config
	Pricing      PricingConfig
	BinaryPolicy domain.BinaryPolicy
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// HistoryEnabled - задан ли DATABASE_URL
func (c *AppConfig) HistoryEnabled() bool {
	return c.Database.URL != ""
}

// EventsEnabled - задан ли RABBITMQ_URL
func (c *AppConfig) EventsEnabled() bool {
	return c.RabbitMQ.URL != ""
}

// LoadConfig загружает конфигурацию из переменных окружения.
// .env необязателен: в контейнере переменные приходят из окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "price-estimator-service")
	cfg.Rest.PORT = getEnvAsString("PORT", "8090")

	cfg.Artifacts.ModelPath = os.Getenv("MODEL_PATH")
	if cfg.Artifacts.ModelPath == "" {
		return nil, fmt.Errorf("MODEL_PATH environment variable is required")
	}
	cfg.Artifacts.ScalerPath = os.Getenv("SCALER_PATH")
	if cfg.Artifacts.ScalerPath == "" {
		return nil, fmt.Errorf("SCALER_PATH environment variable is required")
	}

	cfg.S3.Region = getEnvAsString("S3_REGION", "eu-west-1")
	cfg.S3.Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	cfg.S3.PathStyle = getEnvAsBool("S3_PATH_STYLE", false)

	band, err := loadPriceBand()
	if err != nil {
		return nil, err
	}
	cfg.Pricing.Band = band
	cfg.Pricing.Currency = getEnvAsString("CURRENCY_SYMBOL", "€")

	cfg.BinaryPolicy, err = domain.ParseBinaryPolicy(os.Getenv("BINARY_ENCODING"))
	if err != nil {
		return nil, fmt.Errorf("BINARY_ENCODING: %w", err)
	}

	// история и события опциональны
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.CORS.AllowedOrigins = splitList(getEnvAsString("CORS_ALLOWED_ORIGINS", "*"))

	cfg.RateLimit.RPS = getEnvAsFloat("RATE_LIMIT_RPS", 0)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)
	if cfg.RateLimit.RPS < 0 || cfg.RateLimit.Burst < 1 {
		return nil, errors.New("RATE_LIMIT_RPS must be >= 0 and RATE_LIMIT_BURST >= 1")
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.Format = strings.ToLower(getEnvAsString("LOG_FORMAT", "text"))
	if cfg.StdoutLogger.Format != "text" && cfg.StdoutLogger.Format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.StdoutLogger.Format)
	}
	cfg.StdoutLogger.File = os.Getenv("LOG_FILE")

	return cfg, nil
}

// loadPriceBand: PRICE_BAND=custom требует PRICE_BAND_LOW и PRICE_BAND_HIGH
func loadPriceBand() (domain.PriceBand, error) {
	name := getEnvAsString("PRICE_BAND", "point")
	if strings.EqualFold(strings.TrimSpace(name), "custom") {
		low := getEnvAsFloat("PRICE_BAND_LOW", 0)
		high := getEnvAsFloat("PRICE_BAND_HIGH", 0)
		band, err := domain.NewPriceBand(low, high)
		if err != nil {
			return domain.PriceBand{}, fmt.Errorf("PRICE_BAND=custom: %w", err)
		}
		if band.IsPoint() {
			return domain.PriceBand{}, errors.New("PRICE_BAND=custom requires PRICE_BAND_LOW and PRICE_BAND_HIGH")
		}
		return band, nil
	}

	band, err := domain.ParsePriceBand(name)
	if err != nil {
		return domain.PriceBand{}, fmt.Errorf("PRICE_BAND: %w", err)
	}
	return band, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %v\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
