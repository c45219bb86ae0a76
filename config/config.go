package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	Database DatabaseConfig
	Redis    RedisConfig
	Qdrant   QdrantConfig
	Voyage   VoyageConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Chat platform and tenant APIs
	ChatPlatform ChatPlatformConfig
	TenantOAuth  TenantOAuthConfig

	// Turn handling
	Orchestrator OrchestratorConfig
	Action       ActionConfig

	// Webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// DatabaseConfig selects the durable store. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Enabled   bool
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type QdrantConfig struct {
	URL            string
	APIKey         string
	CollectionName string
	VectorSize     int
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// ChatPlatformConfig holds the platform-level push credentials.
type ChatPlatformConfig struct {
	PushAPIURL   string
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string

	// NgrokAPIURL, when set, is polled at startup to print the public webhook URL.
	NgrokAPIURL string
}

// TenantOAuthConfig configures the tenant authorization-code exchange.
type TenantOAuthConfig struct {
	ClientID            string
	ClientSecret        string
	RedirectURL         string
	AccountsURL         string
	AllowedAccountsURLs []string
	AuthPath            string
	TokenPath           string
	DefaultAPIBaseURL   string
	AuthScheme          string
	Scopes              []string
	StateSecret         string
	StateTTL            time.Duration
}

type OrchestratorConfig struct {
	ResponseDeadline    time.Duration
	PendingResultTTL    time.Duration
	DedupTTL            time.Duration
	LockTTL             time.Duration
	SessionTTL          time.Duration
	GreetingTimeout     time.Duration
	MaxHistory          int
	MaxClarifications   int
	ConfidenceThreshold float64
	TopK                int
}

type ActionConfig struct {
	Timeout     time.Duration
	RetryDelay  time.Duration
	RefreshSkew time.Duration
}

type WebhookConfig struct {
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Storage
	cfg.Database.Driver = viper.GetString("database.driver")
	cfg.Database.DSN = expandEnvVar(viper.GetString("database.dsn"))
	if dsn := viper.GetString("database_url"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	cfg.Redis.Enabled = viper.GetBool("redis.enabled")
	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = expandEnvVar(viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.KeyPrefix = viper.GetString("redis.key_prefix")

	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.APIKey = expandEnvVar(viper.GetString("qdrant.api_key"))
	cfg.Qdrant.CollectionName = viper.GetString("qdrant.collection_name")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	if qdrantURL := viper.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Qdrant.URL = qdrantURL
	}

	cfg.Voyage.APIKey = expandEnvVar(viper.GetString("voyage.api_key"))
	cfg.Voyage.Model = viper.GetString("voyage.model")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, fmt.Errorf("invalid llm config: %w", err)
	}

	// Chat platform push credentials
	cfg.ChatPlatform.PushAPIURL = viper.GetString("chat_platform.push_api_url")
	cfg.ChatPlatform.ClientID = viper.GetString("chat_platform.client_id")
	cfg.ChatPlatform.ClientSecret = expandEnvVar(viper.GetString("chat_platform.client_secret"))
	cfg.ChatPlatform.RefreshToken = expandEnvVar(viper.GetString("chat_platform.refresh_token"))
	cfg.ChatPlatform.TokenURL = viper.GetString("chat_platform.token_url")
	cfg.ChatPlatform.NgrokAPIURL = viper.GetString("chat_platform.ngrok_api_url")

	// Tenant OAuth
	cfg.TenantOAuth.ClientID = viper.GetString("tenant_oauth.client_id")
	cfg.TenantOAuth.ClientSecret = expandEnvVar(viper.GetString("tenant_oauth.client_secret"))
	cfg.TenantOAuth.RedirectURL = viper.GetString("tenant_oauth.redirect_url")
	cfg.TenantOAuth.AccountsURL = viper.GetString("tenant_oauth.accounts_url")
	cfg.TenantOAuth.AllowedAccountsURLs = viper.GetStringSlice("tenant_oauth.allowed_accounts_urls")
	cfg.TenantOAuth.AuthPath = viper.GetString("tenant_oauth.auth_path")
	cfg.TenantOAuth.TokenPath = viper.GetString("tenant_oauth.token_path")
	cfg.TenantOAuth.StateSecret = expandEnvVar(viper.GetString("tenant_oauth.state_secret"))
	cfg.TenantOAuth.StateTTL = viper.GetDuration("tenant_oauth.state_ttl")
	cfg.TenantOAuth.DefaultAPIBaseURL = viper.GetString("tenant_oauth.default_api_base_url")
	cfg.TenantOAuth.AuthScheme = viper.GetString("tenant_oauth.auth_scheme")
	cfg.TenantOAuth.Scopes = viper.GetStringSlice("tenant_oauth.scopes")

	// Turn handling
	cfg.Orchestrator.ResponseDeadline = viper.GetDuration("orchestrator.response_deadline")
	cfg.Orchestrator.PendingResultTTL = viper.GetDuration("orchestrator.pending_result_ttl")
	cfg.Orchestrator.DedupTTL = viper.GetDuration("orchestrator.dedup_ttl")
	cfg.Orchestrator.LockTTL = viper.GetDuration("orchestrator.lock_ttl")
	cfg.Orchestrator.SessionTTL = viper.GetDuration("orchestrator.session_ttl")
	cfg.Orchestrator.GreetingTimeout = viper.GetDuration("orchestrator.greeting_timeout")
	cfg.Orchestrator.MaxHistory = viper.GetInt("orchestrator.max_history")
	cfg.Orchestrator.MaxClarifications = viper.GetInt("orchestrator.max_clarifications")
	cfg.Orchestrator.ConfidenceThreshold = viper.GetFloat64("orchestrator.confidence_threshold")
	cfg.Orchestrator.TopK = viper.GetInt("orchestrator.top_k")

	cfg.Action.Timeout = viper.GetDuration("action.timeout")
	cfg.Action.RetryDelay = viper.GetDuration("action.retry_delay")
	cfg.Action.RefreshSkew = viper.GetDuration("action.refresh_skew")

	// Webhooks
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := viper.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "file:saas-action-bot.db?_pragma=busy_timeout(5000)")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.key_prefix", "sab")
	viper.SetDefault("qdrant.url", "http://localhost:6333")
	viper.SetDefault("qdrant.collection_name", "endpoints")
	viper.SetDefault("qdrant.vector_size", 1024)
	viper.SetDefault("voyage.model", "voyage-3")

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 2)
	viper.SetDefault("llm.retry_delay", "500ms")
	viper.SetDefault("llm.max_total_timeout", "30s")

	viper.SetDefault("tenant_oauth.auth_path", "/oauth/v2/auth")
	viper.SetDefault("tenant_oauth.token_path", "/oauth/v2/token")
	viper.SetDefault("tenant_oauth.state_ttl", "10m")
	viper.SetDefault("tenant_oauth.auth_scheme", "Bearer")

	viper.SetDefault("orchestrator.response_deadline", "4s")
	viper.SetDefault("orchestrator.pending_result_ttl", "5m")
	viper.SetDefault("orchestrator.dedup_ttl", "60s")
	viper.SetDefault("orchestrator.lock_ttl", "10m")
	viper.SetDefault("orchestrator.session_ttl", "30m")
	viper.SetDefault("orchestrator.greeting_timeout", "2s")
	viper.SetDefault("orchestrator.max_history", 10)
	viper.SetDefault("orchestrator.max_clarifications", 2)
	viper.SetDefault("orchestrator.confidence_threshold", 0.8)
	viper.SetDefault("orchestrator.top_k", 5)

	viper.SetDefault("action.timeout", "5s")
	viper.SetDefault("action.retry_delay", "300ms")
	viper.SetDefault("action.refresh_skew", "30s")

	viper.SetDefault("webhook.rate_limit_per_min", 60)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		// Check required fields
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			// Check priority is valid
			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}

			// Check for duplicate priorities
			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true

			// Check API key is set (warning only)
			if provider.APIKey == "" {
				fmt.Printf("Warning: provider %s has no API key configured\n", provider.Name)
			}
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
