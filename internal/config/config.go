package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/printflow2050/printflow-cli/internal/models"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Upload  UploadConfig  `yaml:"upload"`
	Push    PushConfig    `yaml:"push"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	BaseURL            string   `yaml:"base_url"`
	PushURL            string   `yaml:"push_url"`
	Timeout            Duration `yaml:"timeout"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
}

type UploadConfig struct {
	AcceptedTypes []string `yaml:"accepted_types"`
	MaxFileSize   int64    `yaml:"max_file_size"`
	MinCopies     int      `yaml:"min_copies"`
	MaxCopies     int      `yaml:"max_copies"`
	DefaultCopies int      `yaml:"default_copies"`
}

type PushConfig struct {
	ReconnectDelay Duration `yaml:"reconnect_delay"`
	PingInterval   Duration `yaml:"ping_interval"`
	WriteTimeout   Duration `yaml:"write_timeout"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			PushURL: "ws://localhost:5000/ws",
			Timeout: Duration{30 * time.Second},
		},
		Upload: UploadConfig{
			AcceptedTypes: []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png"},
			MaxFileSize:   50 << 20,
			MinCopies:     1,
			MaxCopies:     50,
			DefaultCopies: 1,
		},
		Push: PushConfig{
			ReconnectDelay: Duration{5 * time.Second},
			PingInterval:   Duration{2 * time.Minute},
			WriteTimeout:   Duration{10 * time.Second},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file at path, falling back to $PRINTFLOW_CONFIG and
// then ~/.printflow/config.yaml when path is empty. A missing file is not an
// error: defaults apply, then the environment overlay.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("PRINTFLOW_CONFIG")
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".printflow", "config.yaml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PRINTFLOW_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("PRINTFLOW_PUSH_URL"); v != "" {
		cfg.Server.PushURL = v
	}
	if v := os.Getenv("PRINTFLOW_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("PRINTFLOW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PRINTFLOW_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PRINTFLOW_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxFileSize = n
		}
	}
}

func (c *Config) normalize() {
	for i, t := range c.Upload.AcceptedTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		c.Upload.AcceptedTypes[i] = t
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
}

func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url is required")
	}
	if _, err := url.Parse(c.Server.BaseURL); err != nil {
		return fmt.Errorf("invalid server base_url: %w", err)
	}
	if c.Server.PushURL == "" {
		return fmt.Errorf("server push_url is required")
	}
	if u, err := url.Parse(c.Server.PushURL); err != nil {
		return fmt.Errorf("invalid server push_url: %w", err)
	} else if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server push_url must use ws or wss, got %q", u.Scheme)
	}
	if c.Upload.MaxFileSize < 0 {
		return fmt.Errorf("upload max_file_size must be non-negative")
	}
	if c.Upload.MinCopies < 1 {
		return fmt.Errorf("upload min_copies must be at least 1")
	}
	if c.Upload.MaxCopies < c.Upload.MinCopies {
		return fmt.Errorf("upload max_copies must not be below min_copies")
	}
	if c.Push.ReconnectDelay.Duration <= 0 {
		return fmt.Errorf("push reconnect_delay must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.Logging.Format)
	}
	return nil
}

// Rules exposes the upload constraints in the shape the submission flow
// validates against.
func (c *Config) Rules() models.UploadRules {
	return models.UploadRules{
		AcceptedTypes: c.Upload.AcceptedTypes,
		MaxFileSize:   c.Upload.MaxFileSize,
		MinCopies:     c.Upload.MinCopies,
		MaxCopies:     c.Upload.MaxCopies,
	}
}

// DatabasePath resolves the session store location, defaulting to
// ~/.printflow/printflow.db, and ensures the parent directory exists.
func (c *Config) DatabasePath() (string, error) {
	path := c.Storage.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".printflow", "printflow.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create storage directory: %w", err)
	}
	return path, nil
}
