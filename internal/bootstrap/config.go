package bootstrap

import (
	"os"
	"strconv"
)

type Config struct {
	ServerAddr string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StorageURL           string
	StorageServiceKey    string
	StorageBucket        string
	StorageFileSizeLimit int64

	ReplicateURL   string
	ReplicateToken string
	ReplicateModel string

	LogLevel string
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		StorageURL:           getEnv("STORAGE_URL", ""),
		StorageServiceKey:    getEnv("STORAGE_SERVICE_KEY", ""),
		StorageBucket:        getEnv("STORAGE_BUCKET", "vision-images"),
		StorageFileSizeLimit: getEnvInt64("STORAGE_FILE_SIZE_LIMIT", 0),

		ReplicateURL:   getEnv("REPLICATE_API_URL", "https://api.replicate.com"),
		ReplicateToken: getEnv("REPLICATE_API_TOKEN", ""),
		ReplicateModel: getEnv("REPLICATE_MODEL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
