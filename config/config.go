package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nodepulse/nodepulse/types"
)

var (
	Version    = "dev"
	CommitHash = "unknown"

	// Singleton instance
	configInstance *Config
	configOnce     sync.Once
)

// Default configuration constants
const (
	// Port settings
	DefaultAPIPort     = "8080"
	DefaultMetricsPort = "9090"
	MinPortNumber      = 1
	MaxPortNumber      = 65535

	// Fetch settings
	DefaultQueryTimeout       = 15 * time.Second
	DefaultAggregationTimeout = 8 * time.Second
	DefaultMaxRetries         = 2
	DefaultRetryInitialDelay  = 300 * time.Millisecond
	DefaultBackoffMultiplier  = 2.0

	// Probe settings
	DefaultRPCLatencySamples = 5

	// Concurrent request settings
	DefaultMaxConcurrentRequests = 50
	MaxAllowedConcurrentRequests = 1000

	// Cache settings
	DefaultCacheSize = 64
	DefaultCacheTTL  = 5 * time.Second

	// Metrics settings
	DefaultMetricsPath = "/metrics"

	// Networks registry file
	DefaultNetworksFile = "networks.yaml"

	// Default environment
	DefaultEnvironment = "local"
)

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	Port    string `json:"port"`
}

// SentryConfig contains configuration for Sentry integration
type SentryConfig struct {
	DSN         string  `json:"dsn"`
	SampleRate  float64 `json:"sample_rate"`
	Environment string  `json:"environment"`
}

// FetchConfig bundles the resilient-fetch knobs handed to the probe layer.
type FetchConfig struct {
	QueryTimeout       time.Duration
	AggregationTimeout time.Duration
	MaxRetries         int
	RetryInitialDelay  time.Duration
	BackoffMultiplier  float64
}

func SetBuildInfo(v, commit string) {
	Version = v
	CommitHash = commit
}

type Config struct {
	listenPort            string
	logLevel              string
	logFormat             string
	fetchConfig           *FetchConfig
	rpcLatencySamples     int
	maxConcurrentRequests int
	cacheSize             int
	cacheTTL              time.Duration
	networks              map[string]Network
	metricsConfig         *MetricsConfig
	sentryConfig          *SentryConfig
}

func setDefaults() {
	viper.SetDefault("PORT", DefaultAPIPort)
	viper.SetDefault("LOG_LEVEL", "warn")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("QUERY_TIMEOUT", DefaultQueryTimeout)
	viper.SetDefault("AGGREGATION_TIMEOUT", DefaultAggregationTimeout)
	viper.SetDefault("MAX_RETRIES", DefaultMaxRetries)
	viper.SetDefault("RETRY_INITIAL_DELAY", DefaultRetryInitialDelay)
	viper.SetDefault("BACKOFF_MULTIPLIER", DefaultBackoffMultiplier)
	viper.SetDefault("RPC_LATENCY_SAMPLES", DefaultRPCLatencySamples)
	viper.SetDefault("MAX_CONCURRENT_REQUESTS", DefaultMaxConcurrentRequests)
	viper.SetDefault("CACHE_SIZE", DefaultCacheSize)
	viper.SetDefault("CACHE_TTL", DefaultCacheTTL)
	viper.SetDefault("NETWORKS_FILE", DefaultNetworksFile)
	viper.SetDefault("METRICS_ENABLED", false)
	viper.SetDefault("METRICS_PATH", DefaultMetricsPath)
	viper.SetDefault("METRICS_PORT", DefaultMetricsPort)
	viper.SetDefault("ENVIRONMENT", DefaultEnvironment)

	// Sentry defaults
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("SENTRY_SAMPLE_RATE", 0.01)
}

func GetConfig() (*Config, error) {
	var err error

	configOnce.Do(func() {
		configInstance, err = loadConfig()
	})

	return configInstance, err
}

func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// just log without panic, local testing purpose only
		fmt.Fprintln(os.Stderr, "No .env file found")
	}
	viper.AutomaticEnv()
	setDefaults()

	networks, err := LoadNetworks(viper.GetString("NETWORKS_FILE"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		listenPort: viper.GetString("PORT"),
		logLevel:   viper.GetString("LOG_LEVEL"),
		logFormat:  viper.GetString("LOG_FORMAT"),
		fetchConfig: &FetchConfig{
			QueryTimeout:       viper.GetDuration("QUERY_TIMEOUT"),
			AggregationTimeout: viper.GetDuration("AGGREGATION_TIMEOUT"),
			MaxRetries:         viper.GetInt("MAX_RETRIES"),
			RetryInitialDelay:  viper.GetDuration("RETRY_INITIAL_DELAY"),
			BackoffMultiplier:  viper.GetFloat64("BACKOFF_MULTIPLIER"),
		},
		rpcLatencySamples:     viper.GetInt("RPC_LATENCY_SAMPLES"),
		maxConcurrentRequests: viper.GetInt("MAX_CONCURRENT_REQUESTS"),
		cacheSize:             viper.GetInt("CACHE_SIZE"),
		cacheTTL:              viper.GetDuration("CACHE_TTL"),
		networks:              networks,
		metricsConfig: &MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
			Port:    viper.GetString("METRICS_PORT"),
		},
		sentryConfig: &SentryConfig{
			DSN:         viper.GetString("SENTRY_DSN"),
			SampleRate:  viper.GetFloat64("SENTRY_SAMPLE_RATE"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c Config) GetListenPort() string {
	return c.listenPort
}

func (c Config) GetLogLevel() slog.Level {
	switch c.logLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func (c Config) GetLogFormat() string {
	if c.logFormat == "json" {
		return "json"
	}
	return "plain"
}

func (c Config) GetFetchConfig() *FetchConfig {
	return c.fetchConfig
}

func (c Config) GetRPCLatencySamples() int {
	return c.rpcLatencySamples
}

func (c Config) GetMaxConcurrentRequests() int {
	return c.maxConcurrentRequests
}

func (c Config) GetCacheSize() int {
	return c.cacheSize
}

func (c Config) GetCacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) GetNetworks() map[string]Network {
	return c.networks
}

// GetNetwork looks up one network by key.
func (c Config) GetNetwork(key string) (Network, bool) {
	n, ok := c.networks[key]
	return n, ok
}

// SetNetworks assigns the network registry for testing purposes.
func (c *Config) SetNetworks(networks map[string]Network) {
	c.networks = networks
}

// SetFetchConfig assigns the fetch config for testing purposes.
func (c *Config) SetFetchConfig(fc *FetchConfig) {
	c.fetchConfig = fc
}

// SetRPCLatencySamples assigns the sample count for testing purposes.
func (c *Config) SetRPCLatencySamples(n int) {
	c.rpcLatencySamples = n
}

func (c Config) GetMetricsConfig() *MetricsConfig {
	return c.metricsConfig
}

func (c Config) GetSentryConfig() *SentryConfig {
	return c.sentryConfig
}

func (c Config) Validate() error {
	if err := c.validatePort(c.listenPort, "PORT"); err != nil {
		return err
	}
	if c.metricsConfig != nil && c.metricsConfig.Enabled {
		if err := c.validatePort(c.metricsConfig.Port, "METRICS_PORT"); err != nil {
			return err
		}
	}
	if c.fetchConfig.MaxRetries < 0 {
		return types.NewInvalidValueError("MAX_RETRIES", strconv.Itoa(c.fetchConfig.MaxRetries), "must be non-negative")
	}
	if c.fetchConfig.BackoffMultiplier < 1 {
		return types.NewInvalidValueError("BACKOFF_MULTIPLIER", fmt.Sprintf("%v", c.fetchConfig.BackoffMultiplier), "must be >= 1")
	}
	if c.maxConcurrentRequests < 1 || c.maxConcurrentRequests > MaxAllowedConcurrentRequests {
		return types.NewInvalidValueError("MAX_CONCURRENT_REQUESTS", strconv.Itoa(c.maxConcurrentRequests), "out of range")
	}
	return nil
}

func (c Config) validatePort(port, field string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < MinPortNumber || n > MaxPortNumber {
		return types.NewInvalidValueError(field, port, "must be a valid port number")
	}
	return nil
}
