package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "coursemenu/internal/platform/errors"
)

const (
	DefaultAPIHost     = "https://stepik.org"
	DefaultOutputDir   = "courses"
	DefaultContent     = "text"
	DefaultConcurrency = 1
	DefaultTimeout     = 30 * time.Second
)

type API struct {
	Host         string        `yaml:"host"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	Timeout      time.Duration `yaml:"timeout"`
}

type Config struct {
	API         API    `yaml:"api"`
	OutputDir   string `yaml:"output_dir"`
	DBPath      string `yaml:"db_path"`
	Content     string `yaml:"content"`
	Concurrency int    `yaml:"concurrency"`
	LogMode     string `yaml:"log_mode"`
}

// Load reads the optional YAML file at path, then applies environment
// overrides. Flags are applied by the caller afterwards.
func Load(path string) (Config, error) {
	cfg := Config{
		API: API{
			Host:    DefaultAPIHost,
			Timeout: DefaultTimeout,
		},
		OutputDir:   DefaultOutputDir,
		Content:     DefaultContent,
		Concurrency: DefaultConcurrency,
		LogMode:     "dev",
	}
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("STEPIK_API_HOST", &c.API.Host)
	str("STEPIK_CLIENT_ID", &c.API.ClientID)
	str("STEPIK_CLIENT_SECRET", &c.API.ClientSecret)
	str("COURSEMENU_OUTPUT", &c.OutputDir)
	str("COURSEMENU_DB", &c.DBPath)
	str("COURSEMENU_CONTENT", &c.Content)
	str("COURSEMENU_LOG_MODE", &c.LogMode)
	if v, ok := lookup("COURSEMENU_CONCURRENCY"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: COURSEMENU_CONCURRENCY=%q", apperrors.ErrInvalidInput, v)
		}
		c.Concurrency = n
	}
	if v, ok := lookup("STEPIK_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: STEPIK_TIMEOUT=%q", apperrors.ErrInvalidInput, v)
		}
		c.API.Timeout = d
	}
	return nil
}

// IndexPath is where the export index lives unless DBPath overrides it.
func (c Config) IndexPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.OutputDir, ".coursemenu", "index.db")
}

// Validate checks the fields every command needs. Credentials are checked
// separately by RequireCredentials since "exports" works offline.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output dir is required"))
	}
	switch c.Content {
	case "text", "full":
	default:
		errs = append(errs, fmt.Errorf("unsupported content mode %q", c.Content))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api timeout must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

func (c Config) RequireCredentials() error {
	if strings.TrimSpace(c.API.ClientID) == "" || strings.TrimSpace(c.API.ClientSecret) == "" {
		return fmt.Errorf("%w: STEPIK_CLIENT_ID and STEPIK_CLIENT_SECRET must be set", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(c.API.Host) == "" {
		return fmt.Errorf("%w: api host is required", apperrors.ErrInvalidInput)
	}
	return nil
}
