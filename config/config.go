package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	QR       QRConfig
	JWT      JWTConfig
	Gateway  GatewayConfig
	Sweep    SweepConfig
}

type HTTPConfig struct {
	Addr string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type QRConfig struct {
	SecretKey string
}

type JWTConfig struct {
	SecretKey string
}

type GatewayConfig struct {
	BaseURL     string
	AccessToken string
	// PublicBaseURL is where the gateway delivers webhooks back to us.
	PublicBaseURL string
}

type SweepConfig struct {
	// Interval between in-process sweeps; zero disables the loop and
	// leaves sweeping to an external scheduler hitting the internal route.
	Interval time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		HTTP:     HTTPConfig{Addr: getEnv("HTTP_ADDR", ":8080")},
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		QR:       QRConfig{SecretKey: getEnv("QR_SECRET_KEY", "dev-qr-secret")},
		JWT:      JWTConfig{SecretKey: getEnv("JWT_SECRET_KEY", "dev-jwt-secret")},
		Gateway: GatewayConfig{
			BaseURL:       getEnv("GATEWAY_BASE_URL", "https://api.mercadopago.com"),
			AccessToken:   getEnv("GATEWAY_ACCESS_TOKEN", ""),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		Sweep: SweepConfig{Interval: getEnvDuration("SWEEP_INTERVAL", 0)},
	}
	return AppConfig
}

func LoadTestConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":0"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5433",
			User:     "postgres",
			Password: "postgres",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6380",
			DB:   1,
		},
		QR:  QRConfig{SecretKey: "test-qr-secret"},
		JWT: JWTConfig{SecretKey: "test-jwt-secret"},
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
