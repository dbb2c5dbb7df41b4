package cli

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/cli/config"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

// slackSettings is the part of config.Slack the use cases are built from
type slackSettings interface {
	IsConfigured() bool
	OAuthConfig() usecase.OAuthConfig
	BotClient(opts ...slack.Option) (slack.Client, error)
}

// newUseCases wires the Slack clients and tuning shared by serve and scan
func newUseCases(repo interfaces.Repository, scanCfg *config.ScanConfig, slackCfg slackSettings) (*usecase.UseCases, error) {
	slackOpts := []slack.Option{
		slack.WithCallTimeout(scanCfg.CallTimeout),
		slack.WithMaxRetries(scanCfg.MaxRetries),
	}

	ucOpts := []usecase.Option{
		usecase.WithSlackFactory(slack.NewFactory(slackOpts...)),
		usecase.WithHistoryLimit(scanCfg.HistoryLimit),
		usecase.WithConcurrency(scanCfg.Concurrency),
	}

	botClient, err := slackCfg.BotClient(slackOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack bot client")
	}
	if botClient != nil {
		ucOpts = append(ucOpts, usecase.WithBotClient(botClient))
		logging.Default().Info("Slack bot token configured, first-message features enabled")
	} else {
		logging.Default().Info("Slack bot token not configured, first-message features disabled")
	}

	if slackCfg.IsConfigured() {
		ucOpts = append(ucOpts, usecase.WithOAuth(slackCfg.OAuthConfig()))
		logging.Default().Info("Slack OAuth install flow enabled")
	} else {
		logging.Default().Info("Slack OAuth not configured, install flow disabled")
	}

	return usecase.New(repo, ucOpts...), nil
}
