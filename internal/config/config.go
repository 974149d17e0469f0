// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./ragchat.yaml)
//  3. Default values
//
// Error Handling:
//   - Sentinel errors for Go-idiomatic checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
//
// Security: the PostgreSQL password is masked in MarshalJSON/String.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the generation model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidDimension indicates the embedding dimension is out of range.
	ErrInvalidDimension = errors.New("invalid embedding dimension")

	// ErrInvalidTopK indicates the retrieval top_k is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidThreshold indicates the score threshold is out of range.
	ErrInvalidThreshold = errors.New("invalid score threshold")

	// ErrInvalidCollection indicates the collection name is not a valid identifier.
	ErrInvalidCollection = errors.New("invalid collection name")

	// ErrInvalidServerPort indicates the HTTP listen port is out of range.
	ErrInvalidServerPort = errors.New("invalid server port")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is empty.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is empty.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is not recognized.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")
)

// Defaults mirroring the knowledge-base deployment.
const (
	// DefaultEmbedderModel truncates to 768 dimensions via
	// OutputDimensionality; the collection schema is created to match
	// EmbeddingDimension.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultEmbeddingDimension is the vector width of the collection.
	DefaultEmbeddingDimension = 768

	// DefaultTopK is the number of chunks retrieved per query.
	DefaultTopK = 3

	// DefaultScoreThreshold is the minimum cosine score for a retrieved chunk.
	DefaultScoreThreshold = 0.5
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// HTTP server
	Host        string   `mapstructure:"host" json:"host"`
	Port        int      `mapstructure:"port" json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`

	// Generation model
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`

	// Embedding model
	EmbedderModel      string `mapstructure:"embedder_model" json:"embedder_model"`
	EmbeddingDimension int    `mapstructure:"embedding_dimension" json:"embedding_dimension"`

	// Retrieval
	TopK           int     `mapstructure:"top_k" json:"top_k"`
	ScoreThreshold float32 `mapstructure:"score_threshold" json:"score_threshold"`
	RewriteQueries bool    `mapstructure:"rewrite_queries" json:"rewrite_queries"`

	// Storage (see storage.go for DSN/URL helpers)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`
	CollectionName   string `mapstructure:"collection_name" json:"collection_name"`

	// Ingestion
	DataFile       string `mapstructure:"data_file" json:"data_file"`
	SourceCategory string `mapstructure:"source_category" json:"source_category"`

	// Observability (empty endpoint disables trace export)
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name" json:"service_name"`
	Environment  string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	viper.SetConfigName("ragchat")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/ragchat")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"config_name", "ragchat.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides the individual postgres_* settings
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Server defaults
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 8000)
	viper.SetDefault("cors_origins", []string{"http://localhost:3000"})

	// Generation defaults
	viper.SetDefault("model_name", "gemini-2.0-flash")
	viper.SetDefault("temperature", 0.1)
	viper.SetDefault("max_tokens", 512)

	// Embedding defaults
	viper.SetDefault("embedder_model", DefaultEmbedderModel)
	viper.SetDefault("embedding_dimension", DefaultEmbeddingDimension)

	// Retrieval defaults
	viper.SetDefault("top_k", DefaultTopK)
	viper.SetDefault("score_threshold", DefaultScoreThreshold)
	viper.SetDefault("rewrite_queries", false)

	// PostgreSQL defaults (matching docker-compose.yml)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "ragchat")
	viper.SetDefault("postgres_password", "ragchat_dev_password")
	viper.SetDefault("postgres_db_name", "ragchat")
	viper.SetDefault("postgres_ssl_mode", "disable")
	viper.SetDefault("collection_name", "faq_chunks")

	// Ingestion defaults
	viper.SetDefault("data_file", "data/faq.xlsx")
	viper.SetDefault("source_category", "faq")

	// Observability defaults
	viper.SetDefault("otlp_endpoint", "")
	viper.SetDefault("service_name", "ragchat")
	viper.SetDefault("environment", "dev")
}

// bindEnvVariables binds environment variable overrides explicitly.
// GEMINI_API_KEY is read directly by Genkit, not via Viper; Validate only
// checks its presence.
func bindEnvVariables() {
	// Hardcoded keys can't fail to bind; a failure here is a bug
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("host", "RAGCHAT_HOST")
	mustBind("port", "RAGCHAT_PORT")
	mustBind("cors_origins", "RAGCHAT_CORS_ORIGINS")
	mustBind("model_name", "RAGCHAT_MODEL_NAME")
	mustBind("embedder_model", "RAGCHAT_EMBEDDER_MODEL")
	mustBind("collection_name", "RAGCHAT_COLLECTION_NAME")
	mustBind("top_k", "RAGCHAT_TOP_K")
	mustBind("score_threshold", "RAGCHAT_SCORE_THRESHOLD")
	mustBind("rewrite_queries", "RAGCHAT_REWRITE_QUERIES")
	mustBind("data_file", "RAGCHAT_DATA_FILE")
	mustBind("otlp_endpoint", "RAGCHAT_OTLP_ENDPOINT")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks (U+2588) avoid substring matching against real secrets.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 chars or fewer are fully masked; longer secrets show the
// first and last 2 characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
