package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Reviewer generation providers.
const (
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.GRPCHealthPort < 0 || c.Server.GRPCHealthPort > 65535 {
		return fmt.Errorf("server.grpc_health_port must be in 0..65535 (got %d)", c.Server.GRPCHealthPort)
	}
	if c.Server.GRPCHealthPort != 0 && c.Server.GRPCHealthPort == c.Server.Port {
		return fmt.Errorf("server.grpc_health_port must differ from server.port")
	}

	if err := c.Inference.validate(); err != nil {
		return fmt.Errorf("inference: %w", err)
	}

	if c.Retrieval.DefaultTopK < 1 {
		return fmt.Errorf("retrieval.default_top_k must be >= 1 (got %d)", c.Retrieval.DefaultTopK)
	}
	if c.Retrieval.SnippetLength < 1 {
		return fmt.Errorf("retrieval.snippet_length must be >= 1 (got %d)", c.Retrieval.SnippetLength)
	}
	if c.Retrieval.RetryBackoff < 0 {
		return fmt.Errorf("retrieval.retry_backoff must be >= 0 (got %s)", c.Retrieval.RetryBackoff)
	}

	if c.RateLimit.PublicPerMinute < 1 {
		return fmt.Errorf("rate_limit.public_per_minute must be >= 1 (got %d)", c.RateLimit.PublicPerMinute)
	}

	if c.Governance.LedgerWriteTimeout <= 0 {
		return fmt.Errorf("governance.ledger_write_timeout must be > 0")
	}

	return nil
}

func (i *InferenceConfig) validate() error {
	u, err := url.Parse(i.OllamaBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ollama_base_url must be an absolute URL (got %q)", i.OllamaBaseURL)
	}
	for name, v := range map[string]string{
		"public_model":   i.PublicModel,
		"reviewer_model": i.ReviewerModel,
		"embed_model":    i.EmbedModel,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if i.RequestTimeout <= 0 || i.ConnectTimeout <= 0 {
		return fmt.Errorf("request_timeout and connect_timeout must be > 0")
	}

	switch i.ReviewerProvider {
	case ProviderOllama:
	case ProviderAnthropic:
		if i.AnthropicAPIKey == "" {
			return fmt.Errorf("anthropic_api_key is required when reviewer_provider is %q", ProviderAnthropic)
		}
		if i.AnthropicMaxTok <= 0 {
			return fmt.Errorf("anthropic_max_tokens must be > 0")
		}
	default:
		return fmt.Errorf("reviewer_provider must be %q or %q (got %q)", ProviderOllama, ProviderAnthropic, i.ReviewerProvider)
	}
	return nil
}

// ReviewerModelID returns the model identity recorded for reviewer-track generations.
func (i InferenceConfig) ReviewerModelID() string {
	if i.ReviewerProvider == ProviderAnthropic {
		return i.AnthropicModel
	}
	return i.ReviewerModel
}
