// README: Config loader with env defaults for HTTP, providers, usage ledger and the model catalog.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Deployment targets. Both run the same handler; "server" also serves the static front-end.
const (
	TargetServerless = "serverless"
	TargetServer     = "server"
)

// DefaultMaxBodyBytes caps request bodies; base64 attachments inflate uploads by a third.
const DefaultMaxBodyBytes int64 = 25 << 20

// ModelCatalog names the models the selector can pick.
type ModelCatalog struct {
	Economy         string   `yaml:"economy"`
	Flagship        string   `yaml:"flagship"`
	Vision          string   `yaml:"vision"`
	Gemini          string   `yaml:"gemini"`
	DefaultFallback []string `yaml:"default_fallback"`
}

// DefaultModelCatalog returns the built-in model names.
func DefaultModelCatalog() ModelCatalog {
	return ModelCatalog{
		Economy:         "gpt-4o-mini",
		Flagship:        "gpt-4o",
		Vision:          "claude-3-5-sonnet-20240620",
		Gemini:          "gemini-2.0-flash",
		DefaultFallback: []string{"gpt-4o"},
	}
}

type ProviderConfig struct {
	APIKey  string
	BaseURL string
}

// Enabled reports whether a credential was supplied.
func (p ProviderConfig) Enabled() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

type Config struct {
	HTTP struct {
		Addr         string
		DeployTarget string
		StaticDir    string
		MaxBodyBytes int64
	}
	AI struct {
		OpenAI    ProviderConfig
		Anthropic ProviderConfig
		Gemini    ProviderConfig
		Timeout   time.Duration
	}
	Models ModelCatalog
	DB     struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Log struct {
		Level       string
		Development bool
	}
}

// Load reads an optional .env file, then the environment.
// Missing provider keys are not an error: they disable that provider.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("TRIPBUDGET_HTTP_ADDR", portAddr())
	cfg.HTTP.DeployTarget = strings.ToLower(envOrDefault("TRIPBUDGET_DEPLOY_TARGET", TargetServerless))
	cfg.HTTP.StaticDir = envOrDefault("TRIPBUDGET_STATIC_DIR", "public")
	switch cfg.HTTP.DeployTarget {
	case TargetServerless, TargetServer:
	default:
		return Config{}, fmt.Errorf("config: unknown deploy target %q", cfg.HTTP.DeployTarget)
	}

	maxBody, err := envOrDefaultInt64("TRIPBUDGET_MAX_BODY_BYTES", DefaultMaxBodyBytes)
	if err != nil {
		return Config{}, err
	}
	if maxBody <= 0 {
		return Config{}, fmt.Errorf("config: TRIPBUDGET_MAX_BODY_BYTES must be positive, got %d", maxBody)
	}
	cfg.HTTP.MaxBodyBytes = maxBody

	cfg.AI.OpenAI = ProviderConfig{APIKey: os.Getenv("OPENAI_API_KEY"), BaseURL: os.Getenv("OPENAI_BASE_URL")}
	cfg.AI.Anthropic = ProviderConfig{APIKey: os.Getenv("ANTHROPIC_API_KEY"), BaseURL: os.Getenv("ANTHROPIC_BASE_URL")}
	cfg.AI.Gemini = ProviderConfig{APIKey: os.Getenv("GEMINI_API_KEY")}

	timeout, err := envOrDefaultDuration("TRIPBUDGET_PROVIDER_TIMEOUT", 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.AI.Timeout = timeout

	cfg.Models = DefaultModelCatalog()
	if path := os.Getenv("TRIPBUDGET_MODELS_FILE"); path != "" {
		if err := loadCatalog(path, &cfg.Models); err != nil {
			return Config{}, err
		}
	}

	cfg.DB.DSN = os.Getenv("TRIPBUDGET_DB_DSN")
	cfg.Redis.Addr = os.Getenv("TRIPBUDGET_REDIS_ADDR")
	cfg.Log.Level = envOrDefault("TRIPBUDGET_LOG_LEVEL", "info")
	cfg.Log.Development = envOrDefaultBool("TRIPBUDGET_LOG_DEV", false)
	return cfg, nil
}

// loadCatalog overlays non-empty YAML fields onto the defaults already in c.
func loadCatalog(path string, c *ModelCatalog) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read models file: %w", err)
	}
	var file ModelCatalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse models file: %w", err)
	}
	if file.Economy != "" {
		c.Economy = file.Economy
	}
	if file.Flagship != "" {
		c.Flagship = file.Flagship
	}
	if file.Vision != "" {
		c.Vision = file.Vision
	}
	if file.Gemini != "" {
		c.Gemini = file.Gemini
	}
	if len(file.DefaultFallback) > 0 {
		c.DefaultFallback = file.DefaultFallback
	}
	return nil
}

// portAddr honours the PORT convention of hosted platforms.
func portAddr() string {
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return ":8080"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func envOrDefaultInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
