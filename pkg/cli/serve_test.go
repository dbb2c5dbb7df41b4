package cli_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/cli"
	"github.com/secmon-lab/mentiondeck/pkg/cli/config"
	"github.com/secmon-lab/mentiondeck/pkg/repository/memory"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
)

type slackSettings struct {
	clientID string
	botToken string
}

func (x *slackSettings) IsConfigured() bool {
	return x.clientID != ""
}

func (x *slackSettings) OAuthConfig() usecase.OAuthConfig {
	return usecase.OAuthConfig{ClientID: x.clientID, ClientSecret: "secret"}
}

func (x *slackSettings) BotClient(opts ...slack.Option) (slack.Client, error) {
	if x.botToken == "" {
		return nil, nil
	}
	return slack.New(x.botToken, opts...)
}

func TestNewRunners(t *testing.T) {
	scanCfg, err := config.DefaultAppConfig().ScanConfig()
	gt.NoError(t, err).Required()

	fmEnabled := &config.FirstMessageConfig{Enabled: true, Interval: time.Minute}
	fmDisabled := &config.FirstMessageConfig{Enabled: false, Interval: time.Minute}

	t.Run("scan job only without bot token", func(t *testing.T) {
		uc, err := cli.NewUseCases(memory.New(), scanCfg, &slackSettings{})
		gt.NoError(t, err).Required()

		runners, err := cli.NewRunners(uc, scanCfg, fmEnabled)
		gt.NoError(t, err).Required()
		gt.Array(t, runners).Length(1)
	})

	t.Run("first-message job with bot token", func(t *testing.T) {
		uc, err := cli.NewUseCases(memory.New(), scanCfg, &slackSettings{botToken: "xoxb-test"})
		gt.NoError(t, err).Required()

		runners, err := cli.NewRunners(uc, scanCfg, fmEnabled)
		gt.NoError(t, err).Required()
		gt.Array(t, runners).Length(2)
	})

	t.Run("first-message job disabled by config", func(t *testing.T) {
		uc, err := cli.NewUseCases(memory.New(), scanCfg, &slackSettings{botToken: "xoxb-test"})
		gt.NoError(t, err).Required()

		runners, err := cli.NewRunners(uc, scanCfg, fmDisabled)
		gt.NoError(t, err).Required()
		gt.Array(t, runners).Length(1)
	})

	t.Run("install flow follows oauth config", func(t *testing.T) {
		uc, err := cli.NewUseCases(memory.New(), scanCfg, &slackSettings{clientID: "id"})
		gt.NoError(t, err).Required()
		gt.Bool(t, uc.Install.IsEnabled()).True()
	})
}
