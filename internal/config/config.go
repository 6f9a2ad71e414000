package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the blog generator and preview server.
type Config struct {
	ContentDir    string
	StaticDir     string
	SiteFile      string
	OutputDir     string
	BasePath      string
	DBPath        string
	ServerPort    int
	LogLevel      string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
	RateLimit     RateLimitConfig
}

// RateLimitConfig controls the preview server's per-client token bucket.
type RateLimitConfig struct {
	Burst             int
	RequestsPerSecond float64
	ClientTTL         time.Duration
}

const (
	defaultContentDir     = "content"
	defaultStaticDir      = "static"
	defaultSiteFile       = "site.yaml"
	defaultOutputDir      = "dist"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultRateLimitBurst = 30
	defaultRateLimitRPS   = 10.0
	defaultRateLimitTTL   = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	return load(newViper())
}

// LoadFile reads configuration from the given file, with environment variables taking precedence.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	if strings.TrimSpace(path) == "" {
		return load(v)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "reading config file: %s", path)
	}

	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("CONTENT_DIR", defaultContentDir)
	v.SetDefault("STATIC_DIR", defaultStaticDir)
	v.SetDefault("SITE_FILE", defaultSiteFile)
	v.SetDefault("OUTPUT_DIR", defaultOutputDir)
	v.SetDefault("BASE_PATH", "")
	v.SetDefault("DB_PATH", "")
	v.SetDefault("SERVER_PORT", strconv.Itoa(defaultServerPort))
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("ENV", defaultEnvironment)
	v.SetDefault("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	v.SetDefault("RATE_LIMIT_RPS", strconv.FormatFloat(defaultRateLimitRPS, 'f', -1, 64))
	v.SetDefault("RATE_LIMIT_CLIENT_TTL", defaultRateLimitTTL.String())

	return v
}

func load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ContentDir:    v.GetString("CONTENT_DIR"),
		StaticDir:     v.GetString("STATIC_DIR"),
		SiteFile:      v.GetString("SITE_FILE"),
		OutputDir:     v.GetString("OUTPUT_DIR"),
		BasePath:      normaliseBasePath(v.GetString("BASE_PATH")),
		DBPath:        strings.TrimSpace(v.GetString("DB_PATH")),
		LogLevel:      v.GetString("LOG_LEVEL"),
		SentryDSN:     v.GetString("SENTRY_DSN"),
		Environment:   v.GetString("ENV"),
		ShutdownGrace: defaultShutdownGrace,
	}

	portValue := v.GetString("SERVER_PORT")
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	burstValue := v.GetString("RATE_LIMIT_BURST")
	burst, err := strconv.Atoi(burstValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", burstValue)
	}

	rpsValue := v.GetString("RATE_LIMIT_RPS")
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}

	ttlValue := v.GetString("RATE_LIMIT_CLIENT_TTL")
	ttl, err := time.ParseDuration(ttlValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_CLIENT_TTL value: %s", ttlValue)
	}

	cfg.RateLimit = RateLimitConfig{
		Burst:             burst,
		RequestsPerSecond: rps,
		ClientTTL:         ttl,
	}

	return cfg, nil
}

// normaliseBasePath turns "a1pha.github.io/" into "/a1pha.github.io" and "/" into "".
func normaliseBasePath(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}
