// Package config builds the run configuration from viper settings, the
// environment and the built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/sheetxlate/internal/archive"
	"codeberg.org/snonux/sheetxlate/internal/batch"
	"codeberg.org/snonux/sheetxlate/internal/report"
	"codeberg.org/snonux/sheetxlate/internal/retry"
	"codeberg.org/snonux/sheetxlate/internal/sheet"
	"codeberg.org/snonux/sheetxlate/internal/translation"
)

// EnvPrefix prefixes every environment override, e.g. SHEETXLATE_DISPATCH_WORKERS
const EnvPrefix = "SHEETXLATE"

// Config is everything a run needs
type Config struct {
	Endpoint translation.EndpointConfig
	Workers  int
	Retry    retry.Policy
	Breaker  translation.BreakerConfig
	Pricing  report.Pricing

	SourceColumn string
	// Languages selects and orders target languages; empty means all
	Languages []string

	OutputDir    string
	OutputPrefix string
	ErrorLogFile string
	Locale       string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Endpoint:     translation.DefaultEndpointConfig(),
		Workers:      batch.DefaultWorkers,
		Retry:        retry.DefaultPolicy(),
		Breaker:      translation.DefaultBreakerConfig(),
		Pricing:      report.DefaultPricing(),
		SourceColumn: sheet.DefaultSourceColumn,
		OutputDir:    ".",
		OutputPrefix: archive.DefaultPrefix,
		ErrorLogFile: "error_log.log",
		Locale:       report.DefaultLocale,
	}
}

// SetDefaults registers every key with its default so that environment
// overrides apply to all of them
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("endpoint.provider", d.Endpoint.Provider)
	v.SetDefault("endpoint.base_url", d.Endpoint.BaseURL)
	v.SetDefault("endpoint.model", d.Endpoint.Model)
	v.SetDefault("endpoint.api_key", "")
	v.SetDefault("endpoint.timeout", d.Endpoint.Timeout)
	v.SetDefault("endpoint.temperature", d.Endpoint.Temperature)

	v.SetDefault("dispatch.workers", d.Workers)

	v.SetDefault("retry.attempts", d.Retry.Attempts)
	v.SetDefault("retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("retry.min", d.Retry.Min)
	v.SetDefault("retry.max", d.Retry.Max)

	v.SetDefault("breaker.max_failures", d.Breaker.MaxFailures)
	v.SetDefault("breaker.cooldown", d.Breaker.Cooldown)

	v.SetDefault("pricing.input_per_million", d.Pricing.InputPerMillion)
	v.SetDefault("pricing.output_per_million", d.Pricing.OutputPerMillion)
	v.SetDefault("pricing.currency", d.Pricing.Currency)

	v.SetDefault("sheet.source_column", d.SourceColumn)
	v.SetDefault("languages", []string{})

	v.SetDefault("output.dir", d.OutputDir)
	v.SetDefault("output.prefix", d.OutputPrefix)
	v.SetDefault("log.error_file", d.ErrorLogFile)
	v.SetDefault("report.locale", d.Locale)
}

// BindEnv makes SHEETXLATE_<SECTION>_<KEY> override <section>.<key>
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper reads the configuration and validates it
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Endpoint: translation.EndpointConfig{
			Provider:    strings.ToLower(v.GetString("endpoint.provider")),
			BaseURL:     v.GetString("endpoint.base_url"),
			Model:       v.GetString("endpoint.model"),
			Timeout:     v.GetDuration("endpoint.timeout"),
			Temperature: float32(v.GetFloat64("endpoint.temperature")),
		},
		Workers: v.GetInt("dispatch.workers"),
		Retry: retry.Policy{
			Attempts:   v.GetInt("retry.attempts"),
			Multiplier: v.GetFloat64("retry.multiplier"),
			Min:        v.GetDuration("retry.min"),
			Max:        v.GetDuration("retry.max"),
		},
		Breaker: translation.BreakerConfig{
			MaxFailures: v.GetUint32("breaker.max_failures"),
			Cooldown:    v.GetDuration("breaker.cooldown"),
		},
		Pricing: report.Pricing{
			InputPerMillion:  v.GetFloat64("pricing.input_per_million"),
			OutputPerMillion: v.GetFloat64("pricing.output_per_million"),
			Currency:         v.GetString("pricing.currency"),
		},
		SourceColumn: v.GetString("sheet.source_column"),
		Languages:    v.GetStringSlice("languages"),
		OutputDir:    v.GetString("output.dir"),
		OutputPrefix: v.GetString("output.prefix"),
		ErrorLogFile: v.GetString("log.error_file"),
		Locale:       v.GetString("report.locale"),
	}
	cfg.Endpoint.APIKey = APIKey(cfg.Endpoint.Provider, v.GetString("endpoint.api_key"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// APIKey returns the provider's key from the environment, then the
// configured fallback. A missing key is not an error here; the endpoint
// rejects the calls instead.
func APIKey(provider, fallback string) string {
	if key := os.Getenv(APIKeyEnv(provider)); key != "" {
		return key
	}
	return fallback
}

// APIKeyEnv names the environment variable holding the provider's key
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case translation.ProviderGemini:
		return "GEMINI_API_KEY"
	case translation.ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "DEEPSEEK_API_KEY"
	}
}

// Validate rejects settings no run could work with
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("dispatch.workers must be at least 1, got %d", c.Workers)
	case c.Retry.Attempts < 1:
		return fmt.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts)
	case c.Retry.Max > 0 && c.Retry.Min > c.Retry.Max:
		return fmt.Errorf("retry.min (%v) exceeds retry.max (%v)", c.Retry.Min, c.Retry.Max)
	case c.Endpoint.Timeout < 0:
		return fmt.Errorf("endpoint.timeout must not be negative, got %v", c.Endpoint.Timeout)
	case strings.TrimSpace(c.SourceColumn) == "":
		return fmt.Errorf("sheet.source_column must not be empty")
	case c.Endpoint.Model == "":
		return fmt.Errorf("endpoint.model must not be empty")
	}

	switch c.Endpoint.Provider {
	case translation.ProviderDeepSeek, translation.ProviderOpenAI, translation.ProviderGemini:
	default:
		return fmt.Errorf("unknown endpoint.provider %q", c.Endpoint.Provider)
	}

	return nil
}

