package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Commerce  CommerceConfig
	CMS       CMSConfig
	Cache     CacheConfig
	Grid      GridConfig
	Analytics AnalyticsConfig
	Log       LogConfig
	Sites     []SiteConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string // development, production
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
}

// CommerceConfig holds commerce API connection settings
type CommerceConfig struct {
	BaseURL         string
	AuthURL         string // token endpoint; derived from BaseURL when empty
	ClientID        string
	ClientSecret    string
	Timeout         time.Duration
	MaxResponseSize int64
}

// CMSConfig holds content delivery API connection settings
type CMSConfig struct {
	BaseURL         string
	HubName         string
	DefaultLocale   string
	Timeout         time.Duration
	MaxResponseSize int64
	RegistryFile    string // optional component-registry snapshot path
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CategoryTTL   time.Duration
	ContentTTL    time.Duration
}

// GridConfig holds listing grid settings
type GridConfig struct {
	PageSize       int
	MobilePageSize int
}

// AnalyticsConfig holds listing analytics settings
type AnalyticsConfig struct {
	DataFile string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// SiteConfig defines one storefront site
type SiteConfig struct {
	ID             string `mapstructure:"id"`
	Name           string `mapstructure:"name"`
	Locale         string `mapstructure:"locale"`
	Currency       string `mapstructure:"currency"`
	CommerceSiteID string `mapstructure:"commerce_site_id"`
	SlotKeyPrefix  string `mapstructure:"slot_key_prefix"`
}

// Load loads configuration from a TOML file and environment variables.
// When path is empty the usual locations are searched. Priority (highest to
// lowest): environment variables with STOREFRONT_ prefix, the config file,
// built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("storefront")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/storefront")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Commerce: CommerceConfig{
			BaseURL:         v.GetString("commerce.base_url"),
			AuthURL:         v.GetString("commerce.auth_url"),
			ClientID:        v.GetString("commerce.client_id"),
			ClientSecret:    v.GetString("commerce.client_secret"),
			Timeout:         v.GetDuration("commerce.timeout"),
			MaxResponseSize: v.GetInt64("commerce.max_response_size"),
		},
		CMS: CMSConfig{
			BaseURL:         v.GetString("cms.base_url"),
			HubName:         v.GetString("cms.hub_name"),
			DefaultLocale:   v.GetString("cms.default_locale"),
			Timeout:         v.GetDuration("cms.timeout"),
			MaxResponseSize: v.GetInt64("cms.max_response_size"),
			RegistryFile:    v.GetString("cms.registry_file"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("cache.enabled"),
			RedisAddr:     v.GetString("cache.redis_addr"),
			RedisPassword: v.GetString("cache.redis_password"),
			RedisDB:       v.GetInt("cache.redis_db"),
			CategoryTTL:   v.GetDuration("cache.category_ttl"),
			ContentTTL:    v.GetDuration("cache.content_ttl"),
		},
		Grid: GridConfig{
			PageSize:       v.GetInt("grid.page_size"),
			MobilePageSize: v.GetInt("grid.mobile_page_size"),
		},
		Analytics: AnalyticsConfig{
			DataFile: v.GetString("analytics.data_file"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := v.UnmarshalKey("sites", &cfg.Sites); err != nil {
		return nil, fmt.Errorf("error parsing sites config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.Commerce.Timeout == 0 {
		cfg.Commerce.Timeout = 10 * time.Second
	}
	if cfg.Commerce.MaxResponseSize == 0 {
		cfg.Commerce.MaxResponseSize = 10 << 20 // 10MB
	}
	if cfg.Commerce.AuthURL == "" && cfg.Commerce.BaseURL != "" {
		cfg.Commerce.AuthURL = strings.TrimRight(cfg.Commerce.BaseURL, "/") + "/oauth2/token"
	}
	if cfg.CMS.DefaultLocale == "" {
		cfg.CMS.DefaultLocale = "en-US"
	}
	if cfg.CMS.Timeout == 0 {
		cfg.CMS.Timeout = 10 * time.Second
	}
	if cfg.CMS.MaxResponseSize == 0 {
		cfg.CMS.MaxResponseSize = 10 << 20 // 10MB
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.CategoryTTL == 0 {
		cfg.Cache.CategoryTTL = 5 * time.Minute
	}
	if cfg.Cache.ContentTTL == 0 {
		cfg.Cache.ContentTTL = time.Minute
	}
	if cfg.Grid.PageSize == 0 {
		cfg.Grid.PageSize = 12
	}
	if cfg.Grid.MobilePageSize == 0 {
		cfg.Grid.MobilePageSize = 8
	}
	if cfg.Analytics.DataFile == "" {
		cfg.Analytics.DataFile = "data/analytics.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if len(cfg.Sites) == 0 {
		cfg.Sites = []SiteConfig{{
			ID:       "default",
			Name:     "Storefront",
			Locale:   cfg.CMS.DefaultLocale,
			Currency: "USD",
		}}
	}
	for i := range cfg.Sites {
		if cfg.Sites[i].Locale == "" {
			cfg.Sites[i].Locale = cfg.CMS.DefaultLocale
		}
		if cfg.Sites[i].Currency == "" {
			cfg.Sites[i].Currency = "USD"
		}
		if cfg.Sites[i].CommerceSiteID == "" {
			cfg.Sites[i].CommerceSiteID = cfg.Sites[i].ID
		}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Commerce.BaseURL == "" {
		return fmt.Errorf("commerce.base_url is required")
	}
	if _, err := url.Parse(c.Commerce.BaseURL); err != nil {
		return fmt.Errorf("commerce.base_url is not a valid URL: %w", err)
	}
	if c.CMS.BaseURL == "" && c.CMS.HubName == "" {
		return fmt.Errorf("cms.base_url or cms.hub_name is required")
	}
	if c.CMS.BaseURL != "" {
		if _, err := url.Parse(c.CMS.BaseURL); err != nil {
			return fmt.Errorf("cms.base_url is not a valid URL: %w", err)
		}
	}
	if c.Grid.PageSize < 1 || c.Grid.PageSize > 100 {
		return fmt.Errorf("grid.page_size must be between 1 and 100, got %d", c.Grid.PageSize)
	}
	if c.Grid.MobilePageSize < 1 || c.Grid.MobilePageSize > 100 {
		return fmt.Errorf("grid.mobile_page_size must be between 1 and 100, got %d", c.Grid.MobilePageSize)
	}

	seen := make(map[string]bool)
	for _, site := range c.Sites {
		if site.ID == "" {
			return fmt.Errorf("sites entries must have an id")
		}
		if seen[site.ID] {
			return fmt.Errorf("duplicate site id '%s'", site.ID)
		}
		seen[site.ID] = true
	}

	if c.App.Env == "production" {
		if c.Commerce.ClientID == "" || c.Commerce.ClientSecret == "" {
			return fmt.Errorf("commerce.client_id and commerce.client_secret are required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("http.cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Log.Level == "debug" {
			return fmt.Errorf("log.level cannot be 'debug' in production")
		}
	}

	return nil
}
