package config

import (
	"os"
	"strconv"

	"policy-analytics/internal/models"
)

type AnalyticsConfig struct {
	InputPath  string
	OutputDir  string
	RulesPath  string
	Strictness models.StrictnessMode

	// ScoringWorkers bounds the pool used for per-record scoring. Scoring is
	// embarrassingly parallel, so this is purely a throughput knob.
	ScoringWorkers int

	WarehouseEnabled bool
	CacheEnabled     bool
	PublishEnabled   bool
	EventsEnabled    bool

	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	MinioCfg    MinioConfig
	RabbitMQCfg RabbitMQConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RabbitMQConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioLocation  string
	MinioSecure    string
	ArtifactBucket string
}

func New() *AnalyticsConfig {
	return &AnalyticsConfig{
		InputPath:        getEnvOrDefault("ANALYTICS_INPUT", "insurance_policies.csv"),
		OutputDir:        getEnvOrDefault("ANALYTICS_OUTPUT_DIR", "artifacts"),
		RulesPath:        getEnvOrDefault("ANALYTICS_RULES", ""),
		Strictness:       models.StrictnessMode(getEnvOrDefault("ANALYTICS_STRICTNESS", string(models.StrictnessLenient))),
		ScoringWorkers:   getEnvIntOrDefault("ANALYTICS_SCORING_WORKERS", 4),
		WarehouseEnabled: getEnvBoolOrDefault("ANALYTICS_WAREHOUSE_ENABLED", false),
		CacheEnabled:     getEnvBoolOrDefault("ANALYTICS_CACHE_ENABLED", false),
		PublishEnabled:   getEnvBoolOrDefault("ANALYTICS_PUBLISH_ENABLED", false),
		EventsEnabled:    getEnvBoolOrDefault("ANALYTICS_EVENTS_ENABLED", false),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "policy_analytics"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
			Username: getEnvOrDefault("RABBITMQ_USER", "guest"),
			Password: getEnvOrDefault("RABBITMQ_PASSWORD", "guest"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MinioCfg: MinioConfig{
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9000"),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
			ArtifactBucket: getEnvOrDefault("MINIO_ARTIFACT_BUCKET", "analytics-artifacts"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
