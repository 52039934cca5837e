package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level string
	}
	Database struct {
		Path string
		Seed bool
	}
	Auth struct {
		SessionSecret   string
		CookieName      string
		SessionTTLHours int
		SecureCookies   bool
		LoginRateLimit  float64
		LoginBurst      int
	}
	I18n struct {
		DefaultLocale string
		Supported     []string
		CookieName    string
	}
	Theme struct {
		CookieName string
	}
	Feed struct {
		Bucket          string
		Key             string
		BaseURL         string
		IntervalMinutes int
		Region          string
		Endpoint        string
		ACL             string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("MGA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// env values arrive as a single comma separated string
	if len(cfg.I18n.Supported) == 1 && strings.Contains(cfg.I18n.Supported[0], ",") {
		cfg.I18n.Supported = strings.Split(cfg.I18n.Supported[0], ",")
	}
	for i := range cfg.I18n.Supported {
		cfg.I18n.Supported[i] = strings.TrimSpace(cfg.I18n.Supported[i])
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.path", "data/songs.db")
	v.SetDefault("database.seed", false)
	v.SetDefault("auth.sessionsecret", "")
	v.SetDefault("auth.cookiename", "mga_session")
	v.SetDefault("auth.sessionttlhours", 720)
	v.SetDefault("auth.securecookies", false)
	v.SetDefault("auth.loginratelimit", 5)
	v.SetDefault("auth.loginburst", 5)
	v.SetDefault("i18n.defaultlocale", "en")
	v.SetDefault("i18n.supported", []string{"en", "es"})
	v.SetDefault("i18n.cookiename", "locale")
	v.SetDefault("theme.cookiename", "theme")
	v.SetDefault("feed.bucket", "")
	v.SetDefault("feed.key", "feeds/songs.rss")
	v.SetDefault("feed.baseurl", "http://localhost:8080")
	v.SetDefault("feed.intervalminutes", 10)
	v.SetDefault("feed.region", "us-east-1")
	v.SetDefault("feed.endpoint", "")
	v.SetDefault("feed.acl", "")
	v.SetDefault("aws.profile", "")
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.SessionSecret) == "" {
		return errors.New("auth session secret is required")
	}
	if c.Auth.SessionTTLHours <= 0 {
		return errors.New("auth session ttl must be positive")
	}
	supported := false
	for _, code := range c.I18n.Supported {
		if code == c.I18n.DefaultLocale {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("default locale %q is not among supported locales %v", c.I18n.DefaultLocale, c.I18n.Supported)
	}
	return nil
}

// SessionTTL is the lifetime of a session cookie.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

// FeedInterval is the period between feed snapshot uploads.
func (c Config) FeedInterval() time.Duration {
	if c.Feed.IntervalMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Feed.IntervalMinutes) * time.Minute
}

// loadDotEnv exports KEY=VALUE lines from path without overriding variables
// already present in the environment.
func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		_ = os.Setenv(key, strings.Trim(strings.TrimSpace(value), `"'`))
	}
}
