package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestDefaultAppConfig(t *testing.T) {
	cfg := config.DefaultAppConfig()

	scan, err := cfg.ScanConfig()

	gt.NoError(t, err).Required()
	gt.Value(t, scan.Interval).Equal(15*time.Minute)
	gt.Value(t, scan.Schedule).Equal("")
	gt.Value(t, scan.HistoryLimit).Equal(100)
	gt.Value(t, scan.Concurrency).Equal(1)
	gt.Value(t, scan.CallTimeout).Equal(30*time.Second)
	gt.Value(t, scan.MaxRetries).Equal(3)

	fm, err := cfg.FirstMessageConfig()

	gt.NoError(t, err).Required()
	gt.Bool(t, fm.Enabled).True()
	gt.Value(t, fm.Interval).Equal(15*time.Minute)
}

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		check   func(t *testing.T, cfg *config.AppConfig)
	}{
		{
			name: "all fields",
			content: `
[scan]
interval = "5m"
history_limit = 50
concurrency = 4
call_timeout = "10s"
max_retries = 0

[first_message]
enabled = false
schedule = "*/30 * * * *"
`,
			check: func(t *testing.T, cfg *config.AppConfig) {
				scan, err := cfg.ScanConfig()
				gt.NoError(t, err).Required()
				gt.Value(t, scan.Interval).Equal(5*time.Minute)
				gt.Value(t, scan.HistoryLimit).Equal(50)
				gt.Value(t, scan.Concurrency).Equal(4)
				gt.Value(t, scan.CallTimeout).Equal(10*time.Second)
				gt.Value(t, scan.MaxRetries).Equal(0)

				fm, err := cfg.FirstMessageConfig()

				gt.NoError(t, err).Required()
				gt.Bool(t, fm.Enabled).False()
				gt.Value(t, fm.Schedule).Equal("*/30 * * * *")
			},
		},
		{
			name:    "empty file uses defaults",
			content: "",
			check: func(t *testing.T, cfg *config.AppConfig) {
				scan, err := cfg.ScanConfig()
				gt.NoError(t, err).Required()
				gt.Value(t, scan.HistoryLimit).Equal(100)
			},
		},
		{
			name:    "invalid duration",
			content: "[scan]\ninterval = \"soon\"\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "interval below one second",
			content: "[scan]\ninterval = \"100ms\"\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "invalid cron schedule",
			content: "[scan]\nschedule = \"every day\"\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "history limit out of range",
			content: "[scan]\nhistory_limit = 5000\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "negative concurrency",
			content: "[scan]\nconcurrency = -1\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "negative retries",
			content: "[scan]\nmax_retries = -2\n",
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			cfg, err := config.LoadAppConfiguration(path)
			if tt.wantErr != nil {
				gt.Error(t, err)
				gt.Bool(t, errors.Is(err, tt.wantErr)).True()
				return
			}
			gt.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadAppConfigurationNotFound(t *testing.T) {
	_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
}

func TestLoadAppConfigurationMalformed(t *testing.T) {
	path := writeConfig(t, "[scan\ninterval = ")
	_, err := config.LoadAppConfiguration(path)
	gt.Error(t, err)
}
