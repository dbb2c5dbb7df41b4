package config_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/cli/config"
)

func TestConfigErrors_SentinelIdentification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		sentinelError error
		wantMatch     bool
	}{
		{
			name:          "ErrConfigNotFound can be identified",
			err:           goerr.Wrap(config.ErrConfigNotFound, "failed to load config"),
			sentinelError: config.ErrConfigNotFound,
			wantMatch:     true,
		},
		{
			name:          "ErrInvalidConfig can be identified",
			err:           goerr.Wrap(config.ErrInvalidConfig, "validation failed"),
			sentinelError: config.ErrInvalidConfig,
			wantMatch:     true,
		},
		{
			name:          "ErrMissingOption can be identified",
			err:           goerr.Wrap(config.ErrMissingOption, "postgres-dsn is required"),
			sentinelError: config.ErrMissingOption,
			wantMatch:     true,
		},
		{
			name:          "ErrConfigNotFound is not ErrInvalidConfig",
			err:           goerr.Wrap(config.ErrConfigNotFound, "failed to load config"),
			sentinelError: config.ErrInvalidConfig,
			wantMatch:     false,
		},
		{
			name:          "ErrInvalidConfig is not ErrMissingOption",
			err:           goerr.Wrap(config.ErrInvalidConfig, "validation failed"),
			sentinelError: config.ErrMissingOption,
			wantMatch:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, errors.Is(tt.err, tt.sentinelError)).Equal(tt.wantMatch)
		})
	}
}

func TestConfigErrors_CarryOption(t *testing.T) {
	path := writeConfig(t, "[scan]\nhistory_limit = 2000\n")
	_, err := config.LoadAppConfiguration(path)
	gt.Error(t, err)

	var ge *goerr.Error
	gt.Bool(t, errors.As(err, &ge)).True()
	values := ge.Values()
	gt.Value(t, values[config.OptionKey]).Equal("scan.history_limit")
	gt.Value(t, values[config.ConfigPathKey]).Equal(path)
}
