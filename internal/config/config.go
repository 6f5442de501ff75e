package config

import (
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// DatabaseURL selects the persistence backend. Empty means the in-memory
	// key-value store (no durability across restarts).
	DatabaseURL string

	// Default user settings, applied when the settings store has no stored value.
	GeminiAPIKey   string
	GeminiModel    string
	TargetLang     string
	EngineMode     string
	HistoryMaxSize int

	// History retention sweeper. Zero disables age-based pruning.
	HistoryRetentionDays int

	// Engines holds endpoint/tuning configuration for the translation backends.
	// Populated from the optional yaml config file, with built-in defaults.
	Engines *EnginesConfig `yaml:"engines"`

	// Database Connection Pool
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime int // in minutes
	DBConnMaxLifetime int // in minutes

	// Server
	ServerShutdownTimeoutSeconds int

	// CORS
	CORSAllowedOrigins string

	// Logging
	LogLevel  string
	LogFormat string
}

// EnginesConfig configures the two translation backends.
type EnginesConfig struct {
	Google GoogleEngineConfig `yaml:"google"`
	Gemini GeminiEngineConfig `yaml:"gemini"`
}

// GoogleEngineConfig configures the dictionary/translate endpoint.
type GoogleEngineConfig struct {
	Endpoint              string `yaml:"endpoint"`
	FallbackLang          string `yaml:"fallback_lang"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// RequestTimeout returns the configured request timeout.
func (c GoogleEngineConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// GeminiEngineConfig configures the generative-language endpoint.
type GeminiEngineConfig struct {
	BaseURL               string  `yaml:"base_url"`
	MaxOutputTokens       int     `yaml:"max_output_tokens"`
	Temperature           float64 `yaml:"temperature"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds"`
}

// RequestTimeout returns the configured request timeout.
func (c GeminiEngineConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

var AppConfig *Config

// DefaultEngines returns the built-in engine configuration, matching the
// public endpoints the service talks to out of the box.
func DefaultEngines() *EnginesConfig {
	return &EnginesConfig{
		Google: GoogleEngineConfig{
			Endpoint:              "https://translate.googleapis.com/translate_a/single",
			FallbackLang:          "zh-TW",
			RequestTimeoutSeconds: 15,
		},
		Gemini: GeminiEngineConfig{
			BaseURL:               "https://generativelanguage.googleapis.com",
			MaxOutputTokens:       1024,
			Temperature:           0.1,
			RequestTimeoutSeconds: 30,
		},
	}
}

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Database
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),

		// Translation defaults
		GeminiAPIKey:   getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:    getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		TargetLang:     getEnvOrDefault("TARGET_LANG", "繁體中文"),
		EngineMode:     getEnvOrDefault("ENGINE_MODE", "smart"),
		HistoryMaxSize: getEnvAsInt("HISTORY_MAX_SIZE", 20),

		HistoryRetentionDays: getEnvAsInt("HISTORY_RETENTION_DAYS", 0),

		// Database Connection Pool
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 15),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdleTime: getEnvAsInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 1),
		DBConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),

		// Server
		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// CORS
		CORSAllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	// Engine endpoints may be overridden by the optional config file.
	configFilePath := getEnvOrDefault("CONFIG_FILE", "config.yaml")

	configFile, err := os.Open(configFilePath)
	if err != nil {
		log.Printf("No config file at %s, using built-in engine defaults", configFilePath)
	} else {
		defer configFile.Close()

		if err := LoadConfigFile(configFile, AppConfig); err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
	}

	if AppConfig.Engines == nil {
		AppConfig.Engines = DefaultEngines()
	}
	applyEngineDefaults(AppConfig.Engines)

	if AppConfig.HistoryMaxSize <= 0 {
		log.Printf("Warning: HISTORY_MAX_SIZE=%d is not positive, using 20", AppConfig.HistoryMaxSize)
		AppConfig.HistoryMaxSize = 20
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Println("Warning: Gemini API key is missing. All requests will be served by the Google engine.")
	}
}

// applyEngineDefaults fills zero values left by a partial config file.
func applyEngineDefaults(engines *EnginesConfig) {
	defaults := DefaultEngines()

	if engines.Google.Endpoint == "" {
		engines.Google.Endpoint = defaults.Google.Endpoint
	}
	if engines.Google.FallbackLang == "" {
		engines.Google.FallbackLang = defaults.Google.FallbackLang
	}
	if engines.Google.RequestTimeoutSeconds == 0 {
		engines.Google.RequestTimeoutSeconds = defaults.Google.RequestTimeoutSeconds
	}

	if engines.Gemini.BaseURL == "" {
		engines.Gemini.BaseURL = defaults.Gemini.BaseURL
	}
	if engines.Gemini.MaxOutputTokens == 0 {
		engines.Gemini.MaxOutputTokens = defaults.Gemini.MaxOutputTokens
	}
	if engines.Gemini.Temperature == 0 {
		engines.Gemini.Temperature = defaults.Gemini.Temperature
	}
	if engines.Gemini.RequestTimeoutSeconds == 0 {
		engines.Gemini.RequestTimeoutSeconds = defaults.Gemini.RequestTimeoutSeconds
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

func LoadConfigFile(reader io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(config); err != nil {
		return err
	}

	return nil
}
