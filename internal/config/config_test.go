// README: Config loader tests (defaults, provider switches, YAML catalog overlay).
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TRIPBUDGET_HTTP_ADDR", "PORT", "TRIPBUDGET_DEPLOY_TARGET", "TRIPBUDGET_STATIC_DIR",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "GEMINI_API_KEY",
		"TRIPBUDGET_PROVIDER_TIMEOUT", "TRIPBUDGET_MODELS_FILE", "TRIPBUDGET_DB_DSN", "TRIPBUDGET_REDIS_ADDR",
		"TRIPBUDGET_LOG_LEVEL", "TRIPBUDGET_LOG_DEV", "TRIPBUDGET_MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
	}
	// Run from a temp dir so a developer's .env never leaks into the test.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.HTTP.DeployTarget != TargetServerless {
		t.Fatalf("unexpected http config: %+v", cfg.HTTP)
	}
	if cfg.AI.OpenAI.Enabled() || cfg.AI.Anthropic.Enabled() {
		t.Fatal("expected providers disabled without keys")
	}
	if cfg.HTTP.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Fatalf("unexpected body limit %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.AI.Timeout)
	}
	if diff := cmp.Diff(DefaultModelCatalog(), cfg.Models); diff != "" {
		t.Fatalf("catalog (-want +got):\n%s", diff)
	}
}

func TestLoadProvidersAndPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("TRIPBUDGET_MAX_BODY_BYTES", "1048576")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":3000" {
		t.Fatalf("expected :3000, got %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected 1 MiB body limit, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if !cfg.AI.OpenAI.Enabled() || !cfg.AI.Anthropic.Enabled() || cfg.AI.Gemini.Enabled() {
		t.Fatalf("unexpected provider switches: %+v", cfg.AI)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "deploy target", key: "TRIPBUDGET_DEPLOY_TARGET", val: "lambda"},
		{name: "timeout", key: "TRIPBUDGET_PROVIDER_TIMEOUT", val: "soon"},
		{name: "models file", key: "TRIPBUDGET_MODELS_FILE", val: "/does/not/exist.yaml"},
		{name: "body limit not a number", key: "TRIPBUDGET_MAX_BODY_BYTES", val: "lots"},
		{name: "body limit zero", key: "TRIPBUDGET_MAX_BODY_BYTES", val: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoadModelsFileOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := "economy: gpt-4.1-mini\ndefault_fallback:\n  - gpt-4.1\n  - gpt-4o\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write models file: %v", err)
	}
	t.Setenv("TRIPBUDGET_MODELS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultModelCatalog()
	want.Economy = "gpt-4.1-mini"
	want.DefaultFallback = []string{"gpt-4.1", "gpt-4o"}
	if diff := cmp.Diff(want, cfg.Models); diff != "" {
		t.Fatalf("catalog (-want +got):\n%s", diff)
	}
}
