package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Telegram TelegramConfig
	Recipes  RecipeConfig
	Videos   VideoConfig
	HTTP     HTTPConfig
	Storage  StorageConfig
	Sessions SessionConfig
	Log      LogConfig
}

// TelegramConfig holds bot credentials and webhook protection.
type TelegramConfig struct {
	Token         string
	ApiUrl        string
	WebhookSecret string // empty disables the secret header check
}

// RecipeConfig controls how the recipe source is queried.
type RecipeConfig struct {
	BaseUrl           string
	MaxPerSearch      int
	RandomCount       int
	RandomDelay       time.Duration
	FilterDetailLimit int
}

type VideoConfig struct {
	VKToken         string // empty disables the VK provider's requests
	VKApiUrl        string
	VKApiVersion    string
	RutubeSearchUrl string
	MaxResults      int
}

type HTTPConfig struct {
	Timeout time.Duration
}

// StorageConfig selects the DynamoDB table. Endpoint points at DynamoDB
// Local during development.
type StorageConfig struct {
	TableName string
	Endpoint  string
	Region    string
}

// SessionConfig selects Redis when Addr is set, process memory otherwise.
type SessionConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type LogConfig struct {
	Level string
}

var ErrMissingToken = errors.New("TELEGRAM_TOKEN is required")

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:         getEnv("TELEGRAM_TOKEN", ""),
			ApiUrl:        getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		},
		Recipes: RecipeConfig{
			BaseUrl:           getEnv("MEALDB_BASE_URL", "https://www.themealdb.com/api/json/v1/1"),
			MaxPerSearch:      getEnvInt("MAX_RECIPES_PER_SEARCH", 5),
			RandomCount:       getEnvInt("RANDOM_RECIPE_COUNT", 3),
			RandomDelay:       time.Duration(getEnvInt("RANDOM_FETCH_DELAY_MS", 100)) * time.Millisecond,
			FilterDetailLimit: getEnvInt("FILTER_DETAIL_LIMIT", 5),
		},
		Videos: VideoConfig{
			VKToken:         getEnv("VK_API_TOKEN", ""),
			VKApiUrl:        getEnv("VK_API_URL", "https://api.vk.com/method"),
			VKApiVersion:    getEnv("VK_API_VERSION", "5.131"),
			RutubeSearchUrl: getEnv("RUTUBE_SEARCH_URL", "https://rutube.ru/search/"),
			MaxResults:      getEnvInt("MAX_VIDEO_RESULTS", 3),
		},
		HTTP: HTTPConfig{
			Timeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SEC", 10)) * time.Second,
		},
		Storage: StorageConfig{
			TableName: getEnv("TABLE_NAME", "RecipeBot"),
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("AWS_REGION", "us-east-1"),
		},
		Sessions: SessionConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
	if cfg.Telegram.Token == "" {
		return nil, ErrMissingToken
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
