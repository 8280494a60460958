// Package config loads the relay's process-wide settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvFile is the dotenv filename read from the config directory.
	EnvFile = ".env"

	// DefaultPort is the port the relay listens on.
	DefaultPort = 3000

	// DefaultStaticDir is served as static files alongside the API.
	DefaultStaticDir = ".."

	// DefaultModel is the Gemini model used for suggestions.
	DefaultModel = "gemini-1.5-flash-latest"

	// DefaultEndpoint is the base URL of the generative language API.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/"

	// DefaultTimeout bounds a single outbound generation call.
	DefaultTimeout = 30 * time.Second
)

// Keys, matched case-insensitively against .env entries and the environment.
const (
	KeyAPIKey    = "GEMINI_API_KEY"
	KeyPort      = "PORT"
	KeyStaticDir = "STATIC_DIR"
	KeyModel     = "GEMINI_MODEL"
	KeyEndpoint  = "GEMINI_ENDPOINT"
	KeyTimeout   = "GEMINI_TIMEOUT"
	KeyLogFormat = "LOG_FORMAT"
	KeyDebug     = "DEBUG"
)

// Config holds settings loaded once at startup. It is never mutated afterwards.
type Config struct {
	// Dir is the directory the .env file was looked up in.
	Dir string

	// APIKey is the Gemini API key. Empty means not configured.
	APIKey string

	Port      int
	StaticDir string
	Model     string
	Endpoint  string

	// Timeout bounds each outbound call.
	Timeout time.Duration

	// LogFormat is "plain" or "structured".
	LogFormat string

	// Debug enables debug logging.
	Debug bool
}

// Load reads <dir>/.env if present and applies environment overrides.
// If dir is empty, the current working directory is used.
// A missing API key is not an error here; it is reported per request.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v)

	envPath := filepath.Join(dir, EnvFile)
	if _, err := os.Stat(envPath); err == nil {
		v.SetConfigFile(envPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", envPath, err)
		}
	}

	// Process environment wins over the file.
	v.AutomaticEnv()

	cfg := &Config{
		Dir:       dir,
		APIKey:    v.GetString(KeyAPIKey),
		Port:      v.GetInt(KeyPort),
		StaticDir: v.GetString(KeyStaticDir),
		Model:     v.GetString(KeyModel),
		Endpoint:  v.GetString(KeyEndpoint),
		Timeout:   v.GetDuration(KeyTimeout),
		LogFormat: v.GetString(KeyLogFormat),
		Debug:     v.GetBool(KeyDebug),
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid %s: %d", KeyPort, cfg.Port)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive", KeyTimeout)
	}

	return cfg, nil
}

// DefaultConfigDir returns the current working directory, or "." if it
// cannot be determined.
func DefaultConfigDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// EnvPath returns the path to the .env file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// HasAPIKey reports whether an API key is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyStaticDir, DefaultStaticDir)
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeyEndpoint, DefaultEndpoint)
	v.SetDefault(KeyTimeout, DefaultTimeout.String())
	v.SetDefault(KeyLogFormat, "plain")
	v.SetDefault(KeyDebug, false)
}
