package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	clientID     string
	clientSecret string
	botToken     string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-client-id",
			Usage:       "Slack OAuth client ID",
			Category:    "Slack",
			Destination: &x.clientID,
			Sources:     cli.EnvVars("MENTIONDECK_SLACK_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-client-secret",
			Usage:       "Slack OAuth client secret",
			Category:    "Slack",
			Destination: &x.clientSecret,
			Sources:     cli.EnvVars("MENTIONDECK_SLACK_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for first-message assignment)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("MENTIONDECK_SLACK_BOT_TOKEN"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
		slog.Bool("bot-token", x.botToken != ""),
	)
}

// IsConfigured checks if the OAuth install flow can run
func (x *Slack) IsConfigured() bool {
	return x.clientID != "" && x.clientSecret != ""
}

// OAuthConfig returns the OAuth client settings for the install flow
func (x *Slack) OAuthConfig() usecase.OAuthConfig {
	return usecase.OAuthConfig{
		ClientID:     x.clientID,
		ClientSecret: x.clientSecret,
	}
}

// BotToken returns the Slack bot token
func (x *Slack) BotToken() string {
	return x.botToken
}

// BotClient builds a Slack client for the bot token. It returns nil without
// error when no bot token is configured.
func (x *Slack) BotClient(opts ...slack.Option) (slack.Client, error) {
	if x.botToken == "" {
		return nil, nil
	}
	client, err := slack.New(x.botToken, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create bot client")
	}
	return client, nil
}
