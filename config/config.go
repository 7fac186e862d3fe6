package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ListenAddr string

	WorkDir       string        // Directory holding ephemeral canonical assets
	AssetTTL      time.Duration // Max age before an asset is eligible for deletion
	SweepInterval time.Duration // How often the background sweeper runs

	FFmpegPath string
	YtdlpPath  string
	Proxy      string // Optional outbound proxy for remote fetches

	FetchTimeout  time.Duration // Bound on remote media fetches
	UploadTimeout time.Duration // Bound on blob storage uploads

	// MinIO / S3-compatible storage for published clips
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool
	PublicBaseURL  string // Public URL prefix for published objects

	WebAppDir string // Directory for the browser UI

	LogLevel  string
	LogOutput string // Log file path; empty means stdout only
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration gets an environment variable as a duration (e.g. "1h", "30s")
// or returns a default value.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),

		WorkDir:       getEnv("WORK_DIR", "downloads"),
		AssetTTL:      getEnvDuration("ASSET_TTL", time.Hour),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),

		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
		YtdlpPath:  getEnv("YTDLP_PATH", "yt-dlp"),
		Proxy:      os.Getenv("ACT_PROXY"),

		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 3*time.Minute),
		UploadTimeout: getEnvDuration("UPLOAD_TIMEOUT", 30*time.Second),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"), // No hardcoded default for secrets
		MinioBucket:    getEnv("MINIO_BUCKET", "clips"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),

		WebAppDir: getEnv("WEB_APP_DIR", filepath.Join("web", "ui")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogOutput: getEnv("LOG_OUTPUT", ""),
	}
}
