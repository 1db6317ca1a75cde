package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Inference  InferenceConfig  `yaml:"inference"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Governance GovernanceConfig `yaml:"governance"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Reviewer-Id,X-Request-Id,X-Fault-Injection"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	GRPCHealthPort  int           `yaml:"grpc_health_port" env:"SERVER_GRPC_HEALTH_PORT" env-default:"0"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"180s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-IP limits for the anonymous public track.
type RateLimitConfig struct {
	PublicPerMinute int           `yaml:"public_per_minute" env:"RATE_LIMIT_PUBLIC_PER_MINUTE" env-default:"60"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"  env:"RATE_LIMIT_CLEANUP_INTERVAL"  env-default:"5m"`
}

// InferenceConfig holds model endpoints and identities.
type InferenceConfig struct {
	OllamaBaseURL    string        `yaml:"ollama_base_url"      env:"OLLAMA_BASE_URL"             env-default:"http://127.0.0.1:11434"`
	PublicModel      string        `yaml:"public_model"         env:"OLLAMA_PUBLIC_MODEL"         env-default:"qwen2.5:1.5b-instruct"`
	ReviewerModel    string        `yaml:"reviewer_model"       env:"OLLAMA_CLINICIAN_MODEL"      env-default:"qwen2.5:14b-instruct"`
	EmbedModel       string        `yaml:"embed_model"          env:"OLLAMA_EMBED_MODEL"          env-default:"qwen3-embedding"`
	RequestTimeout   time.Duration `yaml:"request_timeout"      env:"INFERENCE_REQUEST_TIMEOUT"   env-default:"120s"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"      env:"INFERENCE_CONNECT_TIMEOUT"   env-default:"10s"`
	ReviewerProvider string        `yaml:"reviewer_provider"    env:"INFERENCE_REVIEWER_PROVIDER" env-default:"ollama"`
	AnthropicAPIKey  string        `yaml:"anthropic_api_key"    env:"ANTHROPIC_API_KEY"`
	AnthropicModel   string        `yaml:"anthropic_model"      env:"ANTHROPIC_MODEL"             env-default:"claude-sonnet-4-5"`
	AnthropicMaxTok  int64         `yaml:"anthropic_max_tokens" env:"ANTHROPIC_MAX_TOKENS"        env-default:"2048"`
}

// RetrievalConfig holds evidence search settings.
type RetrievalConfig struct {
	DefaultTopK    int           `yaml:"default_top_k"    env:"RETRIEVAL_DEFAULT_TOP_K"    env-default:"3"`
	SnippetLength  int           `yaml:"snippet_length"   env:"RETRIEVAL_SNIPPET_LENGTH"   env-default:"200"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"    env:"RETRIEVAL_RETRY_BACKOFF"    env-default:"250ms"`
	EmbedCachePath string        `yaml:"embed_cache_path" env:"RETRIEVAL_EMBED_CACHE_PATH" env-default:""`
}

// GovernanceConfig holds policy switches.
type GovernanceConfig struct {
	RequireValidCapsule bool          `yaml:"require_valid_capsule" env:"GOVERNANCE_REQUIRE_VALID_CAPSULE" env-default:"true"`
	LedgerWriteTimeout  time.Duration `yaml:"ledger_write_timeout"  env:"GOVERNANCE_LEDGER_WRITE_TIMEOUT"  env-default:"5s"`
}
