// Package config provides configuration loading and management for medpass.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	OutputDir        string    `json:"output_dir"         mapstructure:"output_dir"`
	FontsDir         string    `json:"fonts_dir"          mapstructure:"fonts_dir"`
	SampleImage      string    `json:"sample_image"       mapstructure:"sample_image"`
	ShutdownGraceSec float64   `json:"shutdown_grace_sec" mapstructure:"shutdown_grace_sec"`
	Readiness        Readiness `json:"readiness"          mapstructure:"readiness"`
	LLM              LLM       `json:"llm"                mapstructure:"llm"`
	OCR              OCR       `json:"ocr"                mapstructure:"ocr"`
}

// Readiness bounds the supervisor's startup polling.
type Readiness struct {
	TimeoutSec  float64 `json:"timeout_sec"  mapstructure:"timeout_sec"`
	IntervalSec float64 `json:"interval_sec" mapstructure:"interval_sec"`
}

// LLM selects and configures the language-model provider used by the
// translate, structure, and summarize tools.
type LLM struct {
	Provider   string `json:"provider"              mapstructure:"provider"`
	Model      string `json:"model"                 mapstructure:"model"`
	BaseURL    string `json:"base_url,omitempty"    mapstructure:"base_url"`
	APIKey     string `json:"api_key,omitempty"     mapstructure:"api_key"`
	APIKeyEnv  string `json:"api_key_env,omitempty" mapstructure:"api_key_env"`
	TimeoutSec int    `json:"timeout_sec,omitempty" mapstructure:"timeout_sec"`
}

// OCR configures the OCR tool backend.
type OCR struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// Supported LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		OutputDir:        "data/outputs",
		FontsDir:         "data/fonts",
		SampleImage:      "data/samples/note_ar.jpg",
		ShutdownGraceSec: 5,
		Readiness: Readiness{
			TimeoutSec:  120,
			IntervalSec: 0.3,
		},
		LLM: LLM{
			Provider:   ProviderOpenAI,
			Model:      "o4-mini",
			TimeoutSec: 60,
		},
		OCR: OCR{Enabled: true},
	}
}

// Load reads the config file at path, applies defaults for missing keys,
// validates the result against the embedded schema, and decodes it. A missing
// file is not an error: the defaults stand.
func Load(path string) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("fonts_dir", def.FontsDir)
	v.SetDefault("sample_image", def.SampleImage)
	v.SetDefault("shutdown_grace_sec", def.ShutdownGraceSec)
	v.SetDefault("readiness.timeout_sec", def.Readiness.TimeoutSec)
	v.SetDefault("readiness.interval_sec", def.Readiness.IntervalSec)
	v.SetDefault("llm.provider", def.LLM.Provider)
	v.SetDefault("llm.model", def.LLM.Model)
	v.SetDefault("llm.timeout_sec", def.LLM.TimeoutSec)
	v.SetDefault("ocr.enabled", def.OCR.Enabled)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if err := ValidateSettings(v.AllSettings()); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.LLM.Provider != ProviderOpenAI && cfg.LLM.Provider != ProviderGemini {
		return Config{}, fmt.Errorf("llm.provider must be %q or %q", ProviderOpenAI, ProviderGemini)
	}
	return cfg, nil
}

// ReadinessTimeout returns the overall readiness deadline as a duration.
func (c Config) ReadinessTimeout() time.Duration {
	return time.Duration(c.Readiness.TimeoutSec * float64(time.Second))
}

// ReadinessInterval returns the polling backoff as a duration.
func (c Config) ReadinessInterval() time.Duration {
	return time.Duration(c.Readiness.IntervalSec * float64(time.Second))
}

// ShutdownGrace returns the graceful-termination window as a duration.
func (c Config) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownGraceSec * float64(time.Second))
}
