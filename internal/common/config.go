package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store      StoreConfig
	Recognizer RecognizerConfig
	OpenAI     OpenAIConfig
	Extract    ExtractConfig
	Images     ImageStoreConfig
}

// StoreConfig selects and tunes the record store backend.
type StoreConfig struct {
	Backend          string // "memory" | "sqlite" | "postgres"
	DSN              string
	SQLitePath       string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// RecognizerConfig selects and tunes the text recognition capability.
type RecognizerConfig struct {
	Engine        string // "tesseract" | "openai"
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	TessdataDir   string
	PSM           int // e.g., 6 is good for uniform block of text
	OEM           int // 1 = LSTM; leave 0 to use default
	WorkDir       string
}

// OpenAIConfig holds credentials for the multimodal recognizer.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ExtractConfig tunes field extraction.
type ExtractConfig struct {
	// DayFirst reads ambiguous numeric dates such as 03/04/2024 day-first.
	// The default is month-first, a documented accuracy limitation.
	DayFirst bool
}

// ImageStoreConfig selects where uploaded notice images are kept.
type ImageStoreConfig struct {
	Backend     string // "none" | "local" | "s3"
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:          getEnv("STORE_BACKEND", "memory"),
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", "demolitions.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Recognizer: RecognizerConfig{
			Engine:        getEnv("RECOGNIZER", "tesseract"),
			Tesseract:     getEnv("TESSERACT", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("TESSERACT_PSM", 0),
			OEM:           getEnvAsInt("TESSERACT_OEM", 0),
			WorkDir:       getEnv("RECOGNIZER_WORK_DIR", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
			Timeout: getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Extract: ExtractConfig{
			DayFirst: getEnvAsBool("DATE_DAY_FIRST", false),
		},
		Images: ImageStoreConfig{
			Backend:     getEnv("IMAGE_STORE", "none"),
			Dir:         getEnv("IMAGE_DIR", "./images"),
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Region:    getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate fails fast on configuration the process cannot run with, rather
// than deferring the failure to first use.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return NewAppError("CONFIG_ERROR", "SQLITE_PATH is required for the sqlite backend", ErrValidation)
		}
	case "postgres":
		if c.Store.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for the postgres backend", ErrValidation)
		}
	default:
		return NewAppError("CONFIG_ERROR", "STORE_BACKEND must be memory, sqlite, or postgres", ErrValidation)
	}

	switch c.Recognizer.Engine {
	case "tesseract":
	case "openai":
		if c.OpenAI.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai recognizer", ErrValidation)
		}
	default:
		return NewAppError("CONFIG_ERROR", "RECOGNIZER must be tesseract or openai", ErrValidation)
	}

	switch c.Images.Backend {
	case "none", "local":
	case "s3":
		if c.Images.S3Bucket == "" || c.Images.S3AccessKey == "" || c.Images.S3SecretKey == "" {
			return NewAppError("CONFIG_ERROR", "S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 image store", ErrValidation)
		}
	default:
		return NewAppError("CONFIG_ERROR", "IMAGE_STORE must be none, local, or s3", ErrValidation)
	}
	return nil
}
