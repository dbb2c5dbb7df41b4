package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/cli"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

func TestRunScanWithoutCredentials(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	logPath := filepath.Join(t.TempDir(), "out.log")
	err := cli.Run(context.Background(), []string{
		"mentiondeck",
		"--log-format", "json",
		"--log-output", logPath,
		"scan",
		"--repository-backend", "memory",
	}, "test")
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(logPath)
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.Contains(string(data), "No credentials to scan")).True()
}

func TestRunInvalidBackend(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	err := cli.Run(context.Background(), []string{
		"mentiondeck",
		"--log-output", filepath.Join(t.TempDir(), "out.log"),
		"scan",
		"--repository-backend", "mysql",
	}, "test")
	gt.Error(t, err)
}

func TestRunInvalidConfigFile(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	gt.NoError(t, os.WriteFile(cfgPath, []byte("[scan]\nconcurrency = -1\n"), 0600)).Required()

	err := cli.Run(context.Background(), []string{
		"mentiondeck",
		"--log-output", filepath.Join(dir, "out.log"),
		"scan",
		"--repository-backend", "memory",
		"--config", cfgPath,
	}, "test")
	gt.Error(t, err)
}
