package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "ytdlp-api"

	DefaultPort   = 30022
	DefaultBinary = "yt-dlp"
	DefaultFormat = "best"
)

// Environment overrides, applied after the file is read.
const (
	EnvPort   = "YTDLP_API_PORT"
	EnvAPIKey = "YTDLP_API_KEY"
	EnvBinary = "YTDLP_API_BINARY"
)

// ConfigDir returns the standard config directory.
// Windows: %APPDATA%\ytdlp-api\
// macOS/Linux: ~/.config/ytdlp-api/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/ytdlp-api/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// Server configuration for `ytdlp-api serve`
	Server ServerConfig `yaml:"server"`

	// Extractor controls how yt-dlp is invoked
	Extractor ExtractorConfig `yaml:"extractor"`

	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	// Host is the listen address (default: all interfaces)
	Host string `yaml:"host,omitempty"`

	// Port is the HTTP listen port (default: 30022)
	Port int `yaml:"port,omitempty"`

	// APIKey for authentication (optional, if set /extract requires the X-API-Key header)
	APIKey string `yaml:"api_key,omitempty"`

	// RateLimit is requests per second allowed on /extract, 0 disables limiting
	RateLimit float64 `yaml:"rate_limit,omitempty"`

	// Burst is the token bucket size used with RateLimit
	Burst int `yaml:"burst,omitempty"`
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ExtractorConfig holds yt-dlp invocation settings
type ExtractorConfig struct {
	// Binary is the yt-dlp executable name or path
	Binary string `yaml:"binary,omitempty"`

	// Format is the default format selector passed with -f
	Format string `yaml:"format,omitempty"`

	// Timeout bounds a single extraction, 0 means no bound
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxConcurrent is how many URLs of one request are extracted at once (default: 1)
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// Format is "json" or "console"
	Format string `yaml:"format,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: DefaultPort,
		},
		Extractor: ExtractorConfig{
			Binary:        DefaultBinary,
			Format:        DefaultFormat,
			MaxConcurrent: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks config values are within acceptable bounds
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if c.Server.Burst < 0 {
		return fmt.Errorf("burst cannot be negative")
	}
	if c.Extractor.Timeout < 0 {
		return fmt.Errorf("extractor timeout cannot be negative")
	}
	if c.Extractor.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent cannot be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q (valid: json, console)", c.Log.Format)
	}
	return nil
}

// applyDefaults fills zero values left by a partial config file
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Extractor.Binary == "" {
		c.Extractor.Binary = def.Extractor.Binary
	}
	if c.Extractor.Format == "" {
		c.Extractor.Format = def.Extractor.Format
	}
	if c.Extractor.MaxConcurrent == 0 {
		c.Extractor.MaxConcurrent = def.Extractor.MaxConcurrent
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv(EnvBinary); v != "" {
		c.Extractor.Binary = expandPath(v)
	}
	return nil
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/ytdlp-api/config.yml
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, fills defaults and applies env overrides
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Extractor.Binary = expandPath(cfg.Extractor.Binary)
	cfg.applyDefaults()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
// It handles both forward and backward slashes to ensure cross-platform compatibility
// for configuration files.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		// Only expand if it's explicitly "~", "~/", or "~\"
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/ytdlp-api/config.yml
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes the config to path, creating parent directories
func SaveTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# ytdlp-api configuration file\n# Run 'ytdlp-api init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(path, []byte(content), 0644)
}

// SavePath returns the path where config will be saved
func SavePath() string {
	if path, err := ConfigPath(); err == nil {
		return path
	}
	return ConfigFileName
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults.
// Environment overrides apply in both cases. A file that exists but cannot
// be read, parsed or validated is an error, never silently replaced.
func LoadOrDefault() (*Config, error) {
	if path, err := ConfigPath(); err == nil {
		cfg, err := LoadFrom(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
