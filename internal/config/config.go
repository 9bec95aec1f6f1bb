// Package config loads the yaml settings file and the environment secrets.
// The yaml file carries one profile per deployment environment (local, dev,
// prod); secrets never live in the file and come from the process environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env     string        `yaml:"-"`
	Server  ServerConfig  `yaml:"server"`
	HTTP    HTTPConfig    `yaml:"http"`
	Cache   CacheConfig   `yaml:"cache"`
	Proxy   ProxyConfig   `yaml:"proxy"`
	Logging LoggingConfig `yaml:"logging"`
	Vendors VendorsConfig `yaml:"vendors"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// RetryAttempts is a pointer so an explicit zero in the file disables
	// retries instead of reading as "absent".
	RetryAttempts  *int          `yaml:"retry_attempts"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	MaxConcurrent  int           `yaml:"max_concurrent"`
}

// Retries reads the retry budget, defaulting only when the key is absent.
func (h HTTPConfig) Retries() int {
	if h.RetryAttempts == nil {
		return 3
	}
	return *h.RetryAttempts
}

type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// ProxyConfig selects how outbound requests leave the process. Mode
// "disabled" goes direct, "list" round-robins over the given proxies,
// "rotation" asks a gateway URL for a fresh proxy and caches it for the TTL.
type ProxyConfig struct {
	Mode               string   `yaml:"mode"`
	List               []string `yaml:"list"`
	RotationURL        string   `yaml:"rotation_url"`
	RotationTTLSeconds int      `yaml:"rotation_ttl_seconds"`
	FailOpen           bool     `yaml:"fail_open"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddCaller bool   `yaml:"add_caller"`
}

// VendorsConfig overrides the fixed-host vendor base URLs. The defaults are
// the production hosts; tests point them at a local server.
type VendorsConfig struct {
	IfoodBaseURL        string `yaml:"ifood_base_url"`
	UberEatsBaseURL     string `yaml:"ubereats_base_url"`
	TendaAtacadoBaseURL string `yaml:"tendaatacado_base_url"`
	OsuperSearchBaseURL string `yaml:"osuper_search_base_url"`
	ViaCEPBaseURL       string `yaml:"viacep_base_url"`
	NominatimBaseURL    string `yaml:"nominatim_base_url"`
}

// Secrets are read from the environment, optionally seeded by a .env file.
type Secrets struct {
	APIKeyPrefix     string `env:"API_KEY_PREFIX" envDefault:"API_KEY"`
	VipCommerceToken string `env:"AUTH_TOKEN_VIPCOMMERCE"`
}

// Load reads the profile named by envName from the yaml file at path.
func Load(path, envName string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	profiles := map[string]Config{}
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg, ok := profiles[envName]
	if !ok {
		return Config{}, fmt.Errorf("config: profile %q not found in %s", envName, path)
	}

	cfg.Env = envName
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return Secrets{}, fmt.Errorf("config: parse secrets: %w", err)
	}
	if s.APIKeyPrefix == "" {
		s.APIKeyPrefix = "API_KEY"
	}
	return s, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Minute
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 8 * time.Minute
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}

	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 60 * time.Second
	}
	if c.HTTP.RetryBaseDelay == 0 {
		c.HTTP.RetryBaseDelay = 500 * time.Millisecond
	}
	if c.HTTP.MaxConcurrent == 0 {
		c.HTTP.MaxConcurrent = 8
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.CleanupInterval == 0 {
		c.Cache.CleanupInterval = 10 * time.Minute
	}

	if c.Proxy.Mode == "" {
		c.Proxy.Mode = "disabled"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	if c.Vendors.IfoodBaseURL == "" {
		c.Vendors.IfoodBaseURL = "https://marketplace.ifood.com.br"
	}
	if c.Vendors.UberEatsBaseURL == "" {
		c.Vendors.UberEatsBaseURL = "https://www.ubereats.com"
	}
	if c.Vendors.TendaAtacadoBaseURL == "" {
		c.Vendors.TendaAtacadoBaseURL = "https://api.tendaatacado.com.br"
	}
	if c.Vendors.OsuperSearchBaseURL == "" {
		c.Vendors.OsuperSearchBaseURL = "https://search.osuper.com.br"
	}
	if c.Vendors.ViaCEPBaseURL == "" {
		c.Vendors.ViaCEPBaseURL = "https://viacep.com.br"
	}
	if c.Vendors.NominatimBaseURL == "" {
		c.Vendors.NominatimBaseURL = "https://nominatim.openstreetmap.org"
	}
}

func (c *Config) validate() error {
	switch c.Proxy.Mode {
	case "disabled", "list", "rotation":
	default:
		return fmt.Errorf("config: unknown proxy mode %q", c.Proxy.Mode)
	}
	if c.Proxy.Mode == "list" && len(c.Proxy.List) == 0 {
		return fmt.Errorf("config: proxy mode list needs at least one url")
	}
	if c.Proxy.Mode == "rotation" && c.Proxy.RotationURL == "" {
		return fmt.Errorf("config: proxy mode rotation needs a gateway url")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Server.Port)
	}
	if c.HTTP.RetryAttempts != nil && *c.HTTP.RetryAttempts < 0 {
		return fmt.Errorf("config: retry_attempts must be >= 0")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
