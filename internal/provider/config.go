package provider

import (
	"fmt"
	"os"
	"strings"

	"github.com/sanix-darker/revfix/internal/config"
)

// ProviderConfig holds the resolved configuration for instantiating a
// provider, so the CLI layer does not need to know about config paths.
type ProviderConfig struct {
	// Name is the provider name as it appears in the registry (e.g. "openai").
	Name string

	// Store is a sub-tree scoped to the provider's config block.
	Store *config.Store
}

// ConfigKeyProvider is the config key that holds the active provider name.
const ConfigKeyProvider = "provider"

// OpenRouterBaseURL is the OpenAI-compatible endpoint used when
// OPENROUTER_API_KEY is set and no explicit base URL is configured.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// ResolveProvider reads the active provider name and its config block
// from the config store. The lookup order is:
//
//  1. --provider CLI flag (already set on the store)
//  2. REVFIX_PROVIDER environment variable
//  3. "provider" key in the config file (~/.config/revfix/config.yml)
//  4. Fallback to "openai"
//
// The returned ProviderConfig.Store is scoped to the provider's subtree:
//
//	providers:
//	  openai:
//	    api_key: ...
//	    model: gpt-4o-mini
func ResolveProvider(v *config.Store) ProviderConfig {
	name := v.GetString(ConfigKeyProvider)
	if name == "" {
		name = os.Getenv("REVFIX_PROVIDER")
	}
	if name == "" {
		name = "openai"
	}
	name = strings.ToLower(strings.TrimSpace(name))

	sub := v.Sub(fmt.Sprintf("providers.%s", name))
	if sub == nil {
		// No config file entry; an empty store so env-var and flag
		// bindings still work.
		sub = config.NewStore()
	}

	bindProviderEnvVars(name, sub)

	return ProviderConfig{Name: name, Store: sub}
}

// BindProviderEnvDefaults applies a provider's defaults and env-var
// bindings to a store that is not backed by a config file. Used for
// provider introspection.
func BindProviderEnvDefaults(name string, v *config.Store) {
	bindProviderEnvVars(name, v)
}

// bindProviderEnvVars sets up well-known environment variables for each
// provider so that revfix can be configured entirely through the shell.
func bindProviderEnvVars(name string, v *config.Store) {
	switch name {
	case "openai":
		v.SetDefault("model", "gpt-4o-mini")
		v.SetDefault("base_url", "https://api.openai.com/v1")
		overrideFromEnv(v, "api_key", "OPENAI_API_KEY")
		overrideFromEnv(v, "model", "OPENAI_API_MODEL")
		overrideFromEnv(v, "base_url", "OPENAI_API_BASE")
		// OPENROUTER_API_KEY wins over OPENAI_API_KEY and redirects the
		// openai provider to OpenRouter's compatible endpoint.
		if key := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")); key != "" {
			v.Set("api_key", key)
			if strings.TrimSpace(os.Getenv("OPENAI_API_BASE")) == "" {
				v.Set("base_url", OpenRouterBaseURL)
			}
		}
	case "anthropic", "claude":
		v.SetDefault("model", "claude-sonnet-4-20250514")
		v.SetDefault("base_url", "https://api.anthropic.com")
		overrideFromEnv(v, "api_key", "ANTHROPIC_API_KEY")
		overrideFromEnv(v, "model", "ANTHROPIC_MODEL")
		overrideFromEnv(v, "base_url", "ANTHROPIC_API_BASE")
	default:
		// Generic / OpenAI-compatible: REVFIX_<PROVIDER>_* env vars.
		prefix := strings.ToUpper(name)
		overrideFromEnv(v, "api_key", fmt.Sprintf("REVFIX_%s_API_KEY", prefix))
		overrideFromEnv(v, "model", fmt.Sprintf("REVFIX_%s_MODEL", prefix))
		overrideFromEnv(v, "base_url", fmt.Sprintf("REVFIX_%s_BASE_URL", prefix))
	}
}

func overrideFromEnv(v *config.Store, key, envName string) {
	if value := strings.TrimSpace(os.Getenv(envName)); value != "" {
		v.Set(key, value)
	}
}

// SampleConfigYAML returns an example config.yml snippet that documents
// all provider settings. Printed by "revfix config".
func SampleConfigYAML() string {
	return `# revfix configuration
# Active provider (openai | anthropic | custom OpenAI-compatible).
provider: openai

# Provider-specific settings. Each block corresponds to a registered provider.
providers:
  openai:
    # api_key can also be set via OPENAI_API_KEY env var. When
    # OPENROUTER_API_KEY is set it takes precedence and requests go to
    # https://openrouter.ai/api/v1 (use e.g. model: openai/gpt-4o-mini).
    api_key: ""
    model: "gpt-4o-mini"
    # base_url: "https://api.openai.com/v1"  # override for proxies
    max_tokens: 2048
    timeout: 30s

  anthropic:
    # api_key can also be set via ANTHROPIC_API_KEY env var.
    api_key: ""
    model: "claude-sonnet-4-20250514"
    max_tokens: 2048
    timeout: 30s

# Fix application policy.
fix:
  # Minimum confidence for applying a suggested fix: low | medium | high.
  min_confidence: "medium"
  # One model call per file instead of one per comment.
  batch: false

# Display options.
debug: false
`
}
