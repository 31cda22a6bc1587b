package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "sarathi"

// Default audio commands. {file} is replaced with the temp file path.
const (
	DefaultRecordCommand = "arecord -q -f cd -t wav {file}"
	DefaultPlayCommand   = "ffplay -nodisp -autoexit -loglevel quiet {file}"
)

// DefaultDiagAddr keeps the diagnostics server on this machine.
const DefaultDiagAddr = "127.0.0.1:9090"

// Config holds all client configuration.
// Values come from defaults, then the YAML file, then the environment.
// CLI flags are applied last by the caller.
type Config struct {
	// Backend
	APIURL      string        `yaml:"api_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Resilience
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxConcurrency int           `yaml:"max_concurrency"`

	// Observability
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	DiagAddr     string `yaml:"diag_addr"`
	DiagToken    string `yaml:"diag_token"`

	// Local storage
	StorageBackend string `yaml:"storage_backend"`
	StoragePath    string `yaml:"storage_path"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
	RedisPrefix    string `yaml:"redis_prefix"`
	StorageSecret  string `yaml:"storage_secret"`

	// Audio
	RecordCommand string `yaml:"record_command"`
	PlayCommand   string `yaml:"play_command"`

	// Screens
	StatsDays int `yaml:"stats_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	state := stateDir()
	return &Config{
		APIURL:      "http://localhost:8000",
		HTTPTimeout: 30 * time.Second,

		LogLevel: "info",
		LogFile:  filepath.Join(state, "sarathi.log"),

		MaxRetries:     0,
		InitialBackoff: 200 * time.Millisecond,
		MaxConcurrency: 8,

		DiagAddr: DefaultDiagAddr,

		StorageBackend: "sqlite",
		StoragePath:    filepath.Join(state, "sarathi.db"),
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "sarathi:",

		RecordCommand: DefaultRecordCommand,
		PlayCommand:   DefaultPlayCommand,

		StatsDays: 30,
	}
}

// DefaultPath is the YAML file read when no explicit path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// Load builds the configuration. An explicit path must exist; the default
// path is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnv("SARATHI_API_URL", c.APIURL)
	c.HTTPTimeout = getEnvDuration("SARATHI_HTTP_TIMEOUT", c.HTTPTimeout)

	c.LogLevel = getEnv("SARATHI_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("SARATHI_LOG_FILE", c.LogFile)

	c.MaxRetries = getEnvInt("SARATHI_MAX_RETRIES", c.MaxRetries)
	c.InitialBackoff = getEnvDuration("SARATHI_INITIAL_BACKOFF", c.InitialBackoff)
	c.MaxConcurrency = getEnvInt("SARATHI_MAX_CONCURRENCY", c.MaxConcurrency)

	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.OTLPEndpoint = getEnv("SARATHI_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.DiagAddr = getEnv("SARATHI_DIAG_ADDR", c.DiagAddr)
	c.DiagToken = getEnv("SARATHI_DIAG_TOKEN", c.DiagToken)

	c.StorageBackend = getEnv("SARATHI_STORAGE", c.StorageBackend)
	c.StoragePath = getEnv("SARATHI_STORAGE_PATH", c.StoragePath)
	c.RedisAddr = getEnv("SARATHI_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("SARATHI_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("SARATHI_REDIS_DB", c.RedisDB)
	c.RedisPrefix = getEnv("SARATHI_REDIS_PREFIX", c.RedisPrefix)
	c.StorageSecret = getEnv("SARATHI_STORAGE_SECRET", c.StorageSecret)

	c.RecordCommand = getEnv("SARATHI_RECORD_COMMAND", c.RecordCommand)
	c.PlayCommand = getEnv("SARATHI_PLAY_COMMAND", c.PlayCommand)

	c.StatsDays = getEnvInt("SARATHI_STATS_DAYS", c.StatsDays)
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api_url must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: max_retries must not be negative, got %d", c.MaxRetries)
	}
	switch c.StorageBackend {
	case "sqlite", "memory", "redis":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.StorageBackend)
	}
	if c.StatsDays <= 0 {
		return fmt.Errorf("config: stats_days must be positive, got %d", c.StatsDays)
	}
	return CheckDiagAddr(c.DiagAddr, c.DiagToken)
}

// CheckDiagAddr rejects a diagnostics address that is not host:port, and
// one reachable from other machines when no token guards /v1.
func CheckDiagAddr(addr, token string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("config: diag_addr must be host:port, got %q", addr)
	}
	if token != "" || isLoopback(host) {
		return nil
	}
	return fmt.Errorf("config: diag_addr %q is not a loopback address; set diag_token to expose it", addr)
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// RecordArgv splits the record command into argv.
func (c *Config) RecordArgv() []string { return strings.Fields(c.RecordCommand) }

// PlayArgv splits the play command into argv.
func (c *Config) PlayArgv() []string { return strings.Fields(c.PlayCommand) }

func stateDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", appName)
	}
	return filepath.Join(os.TempDir(), appName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
