// Package config loads the settings an application run needs: account
// credentials, the answers typed into every form, browser options and the
// limits of the application flow.
//
// Values are layered, later layers winning:
//
//  1. DefaultConfig
//  2. the YAML file (optional)
//  3. a .env file (optional, does not override variables already set)
//  4. AUTOAPPLY_* environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvUsername = "AUTOAPPLY_USERNAME"
	EnvPassword = "AUTOAPPLY_PASSWORD"
	EnvPhone    = "AUTOAPPLY_PHONE"
	EnvResume   = "AUTOAPPLY_RESUME"
	EnvSubmit   = "AUTOAPPLY_SUBMIT"
	EnvCache    = "AUTOAPPLY_CACHE"

	// Older deployments kept the LinkedIn credentials under these names.
	EnvLegacyUsername = "LINKEDIN_USERNAME"
	EnvLegacyPassword = "LINKEDIN_PASSWORD"
)

// Browser engines accepted in BrowserConfig.Engine.
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Config is everything an application run reads.
type Config struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// PhoneNumber is written into the contact-info phone field.
	PhoneNumber string `yaml:"phone_number"`

	// ResumePath is uploaded on the resume step.
	ResumePath string `yaml:"resume_path"`

	// SubmitEnabled allows the final submit to be clicked. When false the
	// run stops at the submit button and only reports success.
	SubmitEnabled bool `yaml:"submit_enabled"`

	// CachePath is where the signed-in session is stored. Empty means
	// ~/.autoapply/session.json.
	CachePath string `yaml:"cache_path"`

	Browser BrowserConfig `yaml:"browser"`
	Flow    FlowConfig    `yaml:"flow"`
	Logging LoggingConfig `yaml:"logging"`
}

// BrowserConfig selects and tunes the live browser.
type BrowserConfig struct {
	Engine   string `yaml:"engine"`
	Headless bool   `yaml:"headless"`

	// TimeoutMS is the default timeout of browser operations in milliseconds.
	TimeoutMS float64 `yaml:"timeout_ms"`
}

// FlowConfig bounds the application flow.
type FlowConfig struct {
	// MaxIterations caps page-classification rounds per application.
	MaxIterations int `yaml:"max_iterations"`

	// ApplyTimeout is how long to wait for an enabled apply button.
	ApplyTimeout time.Duration `yaml:"apply_timeout"`

	// StepInterval is the minimum pause between page rounds. Zero disables pacing.
	StepInterval time.Duration `yaml:"step_interval"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Engine:    EngineFirefox,
			Headless:  false,
			TimeoutMS: 30000,
		},
		Flow: FlowConfig{
			MaxIterations: 1000,
			ApplyTimeout:  10 * time.Second,
			StepInterval:  500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Load builds a Config from path and envFile on top of DefaultConfig.
// Either may be empty. A missing file at an explicitly given path is an
// error; the conventional ".env" is optional.
func Load(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if cfg.ResumePath != "" && !filepath.IsAbs(cfg.ResumePath) {
			cfg.ResumePath = filepath.Join(filepath.Dir(path), cfg.ResumePath)
		}
	}

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := os.LookupEnv(key); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.Username, EnvUsername, EnvLegacyUsername)
	setString(&c.Password, EnvPassword, EnvLegacyPassword)
	setString(&c.PhoneNumber, EnvPhone)
	setString(&c.ResumePath, EnvResume)
	setString(&c.CachePath, EnvCache)

	if v, ok := os.LookupEnv(EnvSubmit); ok && v != "" {
		submit, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", EnvSubmit, v)
		}
		c.SubmitEnabled = submit
	}
	return nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required (set %s)", EnvUsername)
	}
	if c.Password == "" {
		return fmt.Errorf("password is required (set %s)", EnvPassword)
	}

	switch c.Browser.Engine {
	case EngineChromium, EngineFirefox, EngineWebKit:
	default:
		return fmt.Errorf("invalid browser engine: %s (must be 'chromium', 'firefox', or 'webkit')", c.Browser.Engine)
	}

	if c.Browser.TimeoutMS < 0 {
		return fmt.Errorf("browser timeout_ms cannot be negative")
	}
	if c.Flow.MaxIterations <= 0 {
		return fmt.Errorf("flow max_iterations must be positive")
	}
	if c.Flow.ApplyTimeout <= 0 {
		return fmt.Errorf("flow apply_timeout must be positive")
	}
	if c.Flow.StepInterval < 0 {
		return fmt.Errorf("flow step_interval cannot be negative")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}
