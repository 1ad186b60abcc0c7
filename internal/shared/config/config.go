package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	HTTPPort             string    `koanf:"http_port"`
	StoragePath          string    `koanf:"storage_path"`
	AIBaseURL            string    `koanf:"ai_base_url"`
	AIAPIKey             string    `koanf:"ai_api_key"`
	AITextModel          string    `koanf:"ai_text_model"`
	AIVisionModel        string    `koanf:"ai_vision_model"`
	TelegramAPIURL       string    `koanf:"telegram_api_url"`
	VKAPIURL             string    `koanf:"vk_api_url"`
	VKAPIVersion         string    `koanf:"vk_api_version"`
	DiscordAPIURL        string    `koanf:"discord_api_url"`
	DiscordWebhookPrefix string    `koanf:"discord_webhook_prefix"`
	SessionTTL           int       `koanf:"session_ttl"`
	FallbackDownloadsDir string    `koanf:"fallback_downloads_dir"`
	FallbackOpenBrowser  bool      `koanf:"fallback_open_browser"`
	FixPolicy            FixPolicy `koanf:"fix_policy"`
	AppEnv               AppEnv    `koanf:"app_env"`
}

var defaults = map[string]any{
	"http_port":              "8080",
	"storage_path":           "./data",
	"ai_base_url":            "https://api.a4f.co/v1",
	"ai_text_model":          "provider-1/deepseek-r1-0528",
	"ai_vision_model":        "provider-5/gpt-4.1-mini",
	"telegram_api_url":       "https://api.telegram.org",
	"vk_api_url":             "https://api.vk.com/method",
	"vk_api_version":         "5.131",
	"discord_api_url":        "https://discord.com/api/v10",
	"discord_webhook_prefix": "https://discord.com/api/webhooks",
	"session_ttl":            3600,
	"fallback_open_browser":  false,
	"fix_policy":             "trust",
	"app_env":                "production",
}

// SessionIdleTTL is how long an untouched compose session is kept.
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values: AI_API_KEY -> ai_api_key
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	for key, value := range defaults {
		if !k.Exists(key) || k.String(key) == "" {
			k.Set(key, value)
		}
	}
	if !k.Exists("fallback_downloads_dir") {
		k.Set("fallback_downloads_dir", filepath.Join(k.String("storage_path"), "downloads"))
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if env, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = env
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	policy, err := ParseFixPolicy(k.String("fix_policy"))
	if err != nil {
		return nil, errors.Configuration(oops.With("fix_policy", k.String("fix_policy")).Wrap(err))
	}
	cfg.FixPolicy = policy

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 3600
	}

	// Validate required fields
	if cfg.AIAPIKey == "" {
		return nil, errors.Configuration(errors.ErrMissingAPIKey)
	}

	return &cfg, nil
}
