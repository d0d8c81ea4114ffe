package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
		// BaseURL is the absolute URL of the web app; invite links are built on it.
		BaseURL     string `yaml:"base_url"`
		AdminSecret string `yaml:"admin_secret"`
		LogLevel    string `yaml:"log_level"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Storage struct {
		// pg | memory
		Driver      string `yaml:"driver"`
		DSN         string `yaml:"dsn"`
		AutoMigrate bool   `yaml:"auto_migrate"`
		Postgres    struct {
			MaxConns int32 `yaml:"max_conns"`
			MinConns int32 `yaml:"min_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL time.Duration `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Auth struct {
		Session struct {
			CookieName string `yaml:"cookie_name"`
			Domain     string `yaml:"domain"`
			SameSite   string `yaml:"same_site"`
			// Secure nil means "only in prod".
			Secure        *bool         `yaml:"secure"`
			TTL           time.Duration `yaml:"ttl"`
			TouchInterval time.Duration `yaml:"touch_interval"`
		} `yaml:"session"`
		InviteTTL         time.Duration `yaml:"invite_ttl"`
		PasswordMinLength int           `yaml:"password_min_length"`
	} `yaml:"auth"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		Window      time.Duration `yaml:"window"`
		MaxRequests int           `yaml:"max_requests"`
		Login       struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		// auto | starttls | ssl | none
		TLS                string `yaml:"tls"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`
}

// Load reads the YAML at path (optional: an empty path means defaults only),
// applies defaults and env overrides, then validates.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.BaseURL == "" {
		c.App.BaseURL = "http://localhost:5173"
	}
	if c.App.ServiceName == "" {
		c.App.ServiceName = "legacy-la"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Storage.Driver == "" {
		if c.Storage.DSN != "" {
			c.Storage.Driver = "pg"
		} else {
			c.Storage.Driver = "memory"
		}
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = 10
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "legacy"
	}
	if c.Cache.Memory.DefaultTTL == 0 {
		c.Cache.Memory.DefaultTTL = 24 * time.Hour
	}
	if c.Auth.Session.CookieName == "" {
		c.Auth.Session.CookieName = "sid"
	}
	if c.Auth.Session.SameSite == "" {
		c.Auth.Session.SameSite = "Strict"
	}
	if c.Auth.Session.TTL == 0 {
		c.Auth.Session.TTL = 24 * time.Hour
	}
	if c.Auth.Session.TouchInterval == 0 {
		c.Auth.Session.TouchInterval = 5 * time.Minute
	}
	if c.Auth.InviteTTL == 0 {
		c.Auth.InviteTTL = 24 * time.Hour
	}
	if c.Auth.PasswordMinLength == 0 {
		c.Auth.PasswordMinLength = 8
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 120
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = time.Minute
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}
}

// IsProd reports whether the process runs with production settings.
func (c *Config) IsProd() bool {
	switch strings.ToLower(c.App.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// CookieSecure resolves the Secure attribute for the session cookie.
func (c *Config) CookieSecure() bool {
	if c.Auth.Session.Secure != nil {
		return *c.Auth.Session.Secure
	}
	return c.IsProd()
}

// Validate checks the invariants the rest of the app relies on.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.App.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("app.base_url must be an absolute URL (ex: https://app.example.com), got %q", c.App.BaseURL))
	}
	switch c.Storage.Driver {
	case "pg":
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required when storage.driver=pg"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported (pg|memory)", c.Storage.Driver))
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required when cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported (memory|redis)", c.Cache.Kind))
	}
	if c.Auth.Session.TTL <= 0 {
		errs = append(errs, errors.New("auth.session.ttl must be positive"))
	}
	if c.Auth.InviteTTL <= 0 {
		errs = append(errs, errors.New("auth.invite_ttl must be positive"))
	}
	switch strings.ToLower(c.Auth.Session.SameSite) {
	case "strict", "lax", "none":
	default:
		errs = append(errs, fmt.Errorf("auth.session.same_site %q not supported (Strict|Lax|None)", c.Auth.Session.SameSite))
	}
	return errors.Join(errs...)
}

// ─── env helpers ───

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d, true
		}
	}
	return 0, false
}

// getEnvSecs reads a plain integer number of seconds.
func getEnvSecs(key string) (time.Duration, bool) {
	if n, ok := getEnvInt(key); ok && n > 0 {
		return time.Duration(n) * time.Second, true
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, len(out) > 0
}

func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	} else if v, ok := getEnvStr("NODE_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("APP_BASE_URL"); ok {
		c.App.BaseURL = v
	}
	if v, ok := getEnvStr("ADMIN_SECRET"); ok {
		c.App.AdminSecret = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	} else if v, ok := getEnvStr("PORT"); ok {
		c.Server.Addr = ":" + v
	}
	if v, ok := getEnvCSV("CORS_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvBool("STORAGE_AUTO_MIGRATE"); ok {
		c.Storage.AutoMigrate = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = int32(v)
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// AUTH
	if v, ok := getEnvDur("SESSION_TTL"); ok {
		c.Auth.Session.TTL = v
	}
	if v, ok := getEnvBool("SESSION_COOKIE_SECURE"); ok {
		c.Auth.Session.Secure = &v
	}
	if v, ok := getEnvStr("SESSION_COOKIE_DOMAIN"); ok {
		c.Auth.Session.Domain = v
	}
	if v, ok := getEnvSecs("INVITE_TTL_SECS"); ok {
		c.Auth.InviteTTL = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_MAX_REQUESTS"); ok {
		c.Rate.MaxRequests = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USER"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASS"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("EMAIL_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvBool("SMTP_SECURE"); ok {
		if v {
			c.SMTP.TLS = "ssl"
		} else {
			c.SMTP.TLS = "starttls"
		}
	}
}
