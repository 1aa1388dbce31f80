package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OutputDir != "data/outputs" {
		t.Fatalf("output_dir = %q, want %q", cfg.OutputDir, "data/outputs")
	}
	if cfg.LLM.Provider != ProviderOpenAI {
		t.Fatalf("llm.provider = %q, want %q", cfg.LLM.Provider, ProviderOpenAI)
	}
	if cfg.ReadinessTimeout() != 120*time.Second {
		t.Fatalf("readiness timeout = %v, want 120s", cfg.ReadinessTimeout())
	}
	if cfg.ReadinessInterval() != 300*time.Millisecond {
		t.Fatalf("readiness interval = %v, want 300ms", cfg.ReadinessInterval())
	}
	if !cfg.OCR.Enabled {
		t.Fatal("ocr.enabled = false, want true by default")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"output_dir": "out",
		"readiness": {"timeout_sec": 10, "interval_sec": 0.5},
		"llm": {"provider": "gemini", "model": "gemini-2.5-flash"}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("output_dir = %q, want %q", cfg.OutputDir, "out")
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Fatalf("llm.provider = %q, want %q", cfg.LLM.Provider, ProviderGemini)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Fatalf("llm.model = %q", cfg.LLM.Model)
	}
	if cfg.ReadinessTimeout() != 10*time.Second {
		t.Fatalf("readiness timeout = %v, want 10s", cfg.ReadinessTimeout())
	}
	if cfg.FontsDir != "data/fonts" {
		t.Fatalf("fonts_dir = %q, want default kept", cfg.FontsDir)
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"llm": {"provider": "anthropic"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load returned nil error, want schema violation")
	}
}

func TestValidateSettings_RejectsWrongTypes(t *testing.T) {
	t.Parallel()

	settings := map[string]any{
		"output_dir": 7,
	}
	if err := ValidateSettings(settings); err == nil {
		t.Fatal("ValidateSettings returned nil error, want error")
	}
}

func TestValidateSettings_RejectsNonPositiveReadiness(t *testing.T) {
	t.Parallel()

	settings := map[string]any{
		"readiness": map[string]any{"interval_sec": 0},
	}
	if err := ValidateSettings(settings); err == nil {
		t.Fatal("ValidateSettings returned nil error, want error")
	}
}
