package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "ARIGATO"

type Config struct {
	Port          string
	APIKey        string
	Model         string
	BaseURL       string
	Strict        bool
	HTTPTimeout   time.Duration
	RateLimit     float64
	RateBurst     int
	SessionTTL    time.Duration
	PostHogAPIKey string
	PostHogURL    string
	LogLevel      string
	LogFormat     string
}

// legacyEnv maps config keys to the unprefixed variable names still honored.
var legacyEnv = map[string]string{
	"api_key": "API_KEY",
	"port":    "GOPORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("strict", false)
	v.SetDefault("http_timeout", "0s")
	v.SetDefault("rate_limit", 30)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("session_ttl", "1h")
	v.SetDefault("posthog_url", "https://eu.posthog.com")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load merges defaults, the optional YAML file at path and the environment,
// in increasing priority. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, fmt.Sprintf("%s_%s", envPrefix, strings.ToUpper(key)), env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:          v.GetString("port"),
		APIKey:        v.GetString("api_key"),
		Model:         v.GetString("model"),
		BaseURL:       v.GetString("base_url"),
		Strict:        v.GetBool("strict"),
		HTTPTimeout:   v.GetDuration("http_timeout"),
		RateLimit:     v.GetFloat64("rate_limit"),
		RateBurst:     v.GetInt("rate_burst"),
		SessionTTL:    v.GetDuration("session_ttl"),
		PostHogAPIKey: v.GetString("posthog_api_key"),
		PostHogURL:    v.GetString("posthog_url"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("config: model is required")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config: rate_burst must not be negative, got %d", c.RateBurst)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
