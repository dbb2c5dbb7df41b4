package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/service/worker"
	"github.com/urfave/cli/v3"
)

const (
	defaultJobInterval = 15 * time.Minute
)

// AppConfig represents the optional TOML configuration file
type AppConfig struct {
	Scan         ScanSection         `toml:"scan"`
	FirstMessage FirstMessageSection `toml:"first_message"`
}

// ScanSection tunes the mention scan job and the Slack client
type ScanSection struct {
	Interval     string `toml:"interval"`
	Schedule     string `toml:"schedule"`
	HistoryLimit int    `toml:"history_limit"`
	Concurrency  int    `toml:"concurrency"`
	CallTimeout  string `toml:"call_timeout"`
	MaxRetries   *int   `toml:"max_retries"`
}

// FirstMessageSection tunes the first-message assignment job
type FirstMessageSection struct {
	Enabled  *bool  `toml:"enabled"`
	Interval string `toml:"interval"`
	Schedule string `toml:"schedule"`
}

// ScanConfig is the validated form of ScanSection
type ScanConfig struct {
	Interval     time.Duration
	Schedule     string
	HistoryLimit int
	Concurrency  int
	CallTimeout  time.Duration
	MaxRetries   int
}

// FirstMessageConfig is the validated form of FirstMessageSection
type FirstMessageConfig struct {
	Enabled  bool
	Interval time.Duration
	Schedule string
}

// AppFile holds the --config flag
type AppFile struct {
	path string
}

func (x *AppFile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file for scan and job tuning",
			Sources:     cli.EnvVars("MENTIONDECK_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Load reads the file given by --config, or returns defaults when unset
func (x *AppFile) Load() (*AppConfig, error) {
	if x.path == "" {
		return DefaultAppConfig(), nil
	}
	return LoadAppConfiguration(x.path)
}

// DefaultAppConfig returns the configuration used without a file
func DefaultAppConfig() *AppConfig {
	return &AppConfig{}
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// Validate checks every section
func (a *AppConfig) Validate() error {
	if _, err := a.ScanConfig(); err != nil {
		return err
	}
	if _, err := a.FirstMessageConfig(); err != nil {
		return err
	}
	return nil
}

// ScanConfig applies defaults and parses durations of the [scan] section
func (a *AppConfig) ScanConfig() (*ScanConfig, error) {
	s := a.Scan
	cfg := &ScanConfig{
		Interval:     defaultJobInterval,
		Schedule:     s.Schedule,
		HistoryLimit: slack.DefaultHistoryLimit,
		Concurrency:  1,
		CallTimeout:  slack.DefaultCallTimeout,
		MaxRetries:   slack.DefaultMaxRetries,
	}

	var err error
	if cfg.Interval, err = parseDuration("scan.interval", s.Interval, cfg.Interval); err != nil {
		return nil, err
	}
	if cfg.CallTimeout, err = parseDuration("scan.call_timeout", s.CallTimeout, cfg.CallTimeout); err != nil {
		return nil, err
	}
	if _, err := worker.ParseSchedule(cfg.Schedule, cfg.Interval); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(OptionKey, "scan.schedule"))
	}

	if s.HistoryLimit != 0 {
		cfg.HistoryLimit = s.HistoryLimit
	}
	if cfg.HistoryLimit < 1 || cfg.HistoryLimit > 1000 {
		return nil, goerr.Wrap(ErrInvalidConfig, "history_limit must be between 1 and 1000",
			goerr.V(OptionKey, "scan.history_limit"), goerr.V("value", cfg.HistoryLimit))
	}

	if s.Concurrency != 0 {
		cfg.Concurrency = s.Concurrency
	}
	if cfg.Concurrency < 1 {
		return nil, goerr.Wrap(ErrInvalidConfig, "concurrency must be at least 1",
			goerr.V(OptionKey, "scan.concurrency"), goerr.V("value", cfg.Concurrency))
	}

	if s.MaxRetries != nil {
		cfg.MaxRetries = *s.MaxRetries
	}
	if cfg.MaxRetries < 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "max_retries must not be negative",
			goerr.V(OptionKey, "scan.max_retries"), goerr.V("value", cfg.MaxRetries))
	}

	return cfg, nil
}

// FirstMessageConfig applies defaults to the [first_message] section
func (a *AppConfig) FirstMessageConfig() (*FirstMessageConfig, error) {
	s := a.FirstMessage
	cfg := &FirstMessageConfig{
		Enabled:  true,
		Interval: defaultJobInterval,
		Schedule: s.Schedule,
	}
	if s.Enabled != nil {
		cfg.Enabled = *s.Enabled
	}

	var err error
	if cfg.Interval, err = parseDuration("first_message.interval", s.Interval, cfg.Interval); err != nil {
		return nil, err
	}
	if _, err := worker.ParseSchedule(cfg.Schedule, cfg.Interval); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(OptionKey, "first_message.schedule"))
	}
	return cfg, nil
}

func parseDuration(option, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidConfig, "invalid duration",
			goerr.V(OptionKey, option), goerr.V("value", value))
	}
	if d <= 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "duration must be positive",
			goerr.V(OptionKey, option), goerr.V("value", value))
	}
	return d, nil
}
