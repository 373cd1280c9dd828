package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Services known to the OCR runner.
var Services = []string{"gemini", "aws", "azure", "gcp"}

type Config struct {
	// Credentials is the directory holding provider key files
	// (aws credentials/config, azure.json, gcp.json).
	Credentials string        `yaml:"credentials"`
	Services    []string      `yaml:"services"`
	Gemini      GeminiConfig  `yaml:"gemini"`
	Azure       AzureConfig   `yaml:"azure"`
	Reference   string        `yaml:"reference"`
	Server      ServerConfig  `yaml:"server"`
	Logging     LoggingConfig `yaml:"logging"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type AzureConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	Static          string `yaml:"static"`
	MaxLiveSessions int    `yaml:"max_live_sessions"`
	MaxUploadMB     int64  `yaml:"max_upload_mb"`
	// MaxCompareChars bounds each text scored by the compare endpoints.
	MaxCompareChars int `yaml:"max_compare_chars"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultPath is ~/.tigereval/config.yaml, or config.yaml in the working
// directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".tigereval", "config.yaml")
}

// Load reads and parses the configuration file. A missing file is only an
// error when required is set; otherwise defaults are returned.
func Load(path string, required bool) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Credentials == "" {
		cfg.Credentials = filepath.Dir(DefaultPath())
	}
	if len(cfg.Services) == 0 {
		cfg.Services = []string{"gemini"}
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Reference == "" {
		cfg.Reference = "reference.json"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxLiveSessions == 0 {
		cfg.Server.MaxLiveSessions = 64
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.Server.MaxCompareChars == 0 {
		cfg.Server.MaxCompareChars = 20000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func (c *Config) Validate() error {
	for _, s := range c.Services {
		if !known(s) {
			return fmt.Errorf("unknown service %q (want one of %s)", s, strings.Join(Services, ", "))
		}
	}
	if _, err := c.Logging.level(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Server.MaxLiveSessions < 0 {
		return fmt.Errorf("server.max_live_sessions must not be negative")
	}
	if c.Server.MaxCompareChars < 0 {
		return fmt.Errorf("server.max_compare_chars must not be negative")
	}
	return nil
}

func known(service string) bool {
	for _, s := range Services {
		if s == service {
			return true
		}
	}
	return false
}

func (l LoggingConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("unknown log level %q", l.Level)
	}
	return lvl, nil
}

// Logger builds the slog logger described by the logging section.
func (l LoggingConfig) Logger(w *os.File) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
