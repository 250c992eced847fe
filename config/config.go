package config

import (
	"github.com/joho/godotenv"
	"log/slog"
	"os"
	"strconv"
)

const (
	DefaultSidecarPort     = 18081
	DefaultDownloadWorkers = 4
)

type Config struct {
	ApiURL          string
	AccessKey       string
	SecretKey       string
	BucketName      string
	Region          string
	SidecarPort     int
	WorkspaceID     string
	DownloadWorkers int
}

// Load reads configuration once at startup. WorkspaceID identifies the
// remote workspace this tool operates on; it is resolved here and passed
// around explicitly rather than looked up from the process environment at
// the point of use.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		ApiURL:          getEnv("API_URL", ""),
		AccessKey:       getEnv("ACCESS_KEY", ""),
		SecretKey:       getEnv("SECRET_KEY", ""),
		BucketName:      getEnv("BUCKET_NAME", ""),
		Region:          getEnv("REGION", ""),
		SidecarPort:     getEnvInt("SIDECAR_PORT", DefaultSidecarPort),
		WorkspaceID:     getEnv("WORKSPACE_ID", ""),
		DownloadWorkers: getEnvInt("DOWNLOAD_WORKERS", DefaultDownloadWorkers),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer value, using default", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}
