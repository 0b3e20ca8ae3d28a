package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL               string        `mapstructure:"base_url"`
	ImageBaseURL          string        `mapstructure:"image_base_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	RateLimitPerSecond    float64       `mapstructure:"rate_limit_per_second"`
	HideNotifications     bool          `mapstructure:"hide_notifications"`
	ResolveContentImages  bool          `mapstructure:"resolve_content_images"`
	NotifiersFile         string        `mapstructure:"notifiers_file"`

	TokenKey        string        `mapstructure:"token_key"`
	TokenStore      string        `mapstructure:"token_store"`
	TokenEnv        string        `mapstructure:"token_env"`
	BBoltPath       string        `mapstructure:"bbolt_path"`
	TokenTTLSeconds int64         `mapstructure:"token_ttl_seconds"`
	TokenTTL        time.Duration `mapstructure:"-"`

	MirrorDriver string `mapstructure:"mirror_driver"`
	MirrorDSN    string `mapstructure:"mirror_dsn"`
}

// Flags returns the flag set understood by Load. Flag names use dashes; they map onto the
// underscore config keys.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("base-url", "", "API base URL")
	fs.String("image-base-url", "", "image host base URL")
	fs.String("log-level", "", "log level (debug|info|warn|error)")
	fs.Int64("request-timeout-seconds", 0, "per-request timeout; 0 keeps the transport default")
	fs.Bool("hide-notifications", false, "suppress failure notifications")
	fs.Bool("resolve-content-images", false, "rewrite bare image ids in post content to image URLs")
	fs.String("token-store", "", "token store (bbolt|env|none)")
	fs.String("notifiers-file", "", "path to notifier sinks file")
	return fs
}

// Load reads configuration from environment variables, config files and the given flags (may be nil).
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "cmsadmin")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("image_base_url", "")
	v.SetDefault("request_timeout_seconds", 0)
	v.SetDefault("rate_limit_per_second", 0)
	v.SetDefault("hide_notifications", false)
	v.SetDefault("resolve_content_images", false)
	v.SetDefault("notifiers_file", "")
	v.SetDefault("token_key", "suntech-x-atk")
	v.SetDefault("token_store", "bbolt")
	v.SetDefault("token_env", "CMS_TOKEN")
	v.SetDefault("bbolt_path", "./data/session.db")
	v.SetDefault("token_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("mirror_driver", "sqlite3")
	v.SetDefault("mirror_dsn", "./data/mirror.db")

	v.SetEnvPrefix("cms")
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil || !f.Changed {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid base_url (must not be empty)")
	}
	cfg.ImageBaseURL = strings.TrimSpace(cfg.ImageBaseURL)

	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must not be negative)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.RateLimitPerSecond < 0 {
		return nil, fmt.Errorf("invalid rate_limit_per_second (must not be negative)")
	}

	if strings.TrimSpace(cfg.TokenKey) == "" {
		return nil, fmt.Errorf("invalid token_key (must not be empty)")
	}
	if cfg.TokenTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid token_ttl_seconds (must be positive seconds)")
	}
	cfg.TokenTTL = time.Duration(cfg.TokenTTLSeconds) * time.Second

	return &cfg, nil
}
