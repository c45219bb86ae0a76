package llmprovider

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"saas-action-bot/config"
	"saas-action-bot/pkg/deepseek"
	"saas-action-bot/pkg/gemini"
)

const (
	qwenBaseURL   = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
	openAIBaseURL = "https://api.openai.com/v1"
)

// InitializeProviders creates Provider instances from config.LLMConfig.
// Returns providers sorted by priority (ascending) with disabled providers filtered out.
// Providers that fail to initialize are skipped; their errors are returned in skipped.
func InitializeProviders(cfg *config.LLMConfig) (providers []Provider, skipped []error, err error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("LLM config is nil")
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, nil, ErrNoProvidersConfigured
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var msgs []string
	for _, p := range enabled {
		provider, perr := createProvider(p)
		if perr != nil {
			perr = fmt.Errorf("provider %s (priority %d): %w", p.Name, p.Priority, perr)
			skipped = append(skipped, perr)
			msgs = append(msgs, perr.Error())
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, skipped, fmt.Errorf("no providers successfully initialized: %s", strings.Join(msgs, "; "))
	}

	return providers, skipped, nil
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var httpClient *http.Client
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
		}
		httpClient = &http.Client{Timeout: d}
	}

	switch cfg.Name {
	case "gemini":
		client, err := gemini.New(gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			APIURL:     cfg.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return NewGeminiAdapter(client), nil

	case "deepseek", "qwen", "alibaba", "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			switch cfg.Name {
			case "qwen", "alibaba":
				baseURL = qwenBaseURL
			case "openai":
				baseURL = openAIBaseURL
			}
		}
		client, err := deepseek.New(deepseek.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    baseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return NewOpenAICompatAdapter(cfg.Name, client), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}
