package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

// FirstMessageUseCase records the oldest message of every public channel
// using the bot token.
type FirstMessageUseCase struct {
	repo interfaces.Repository
	bot  slack.Client
	now  func() time.Time
}

// LatestMessage is the newest message of a channel
type LatestMessage struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	MessageTS   string `json:"message_ts"`
	UserID      string `json:"user_slack_id"`
	Content     string `json:"message"`
}

// NewFirstMessageUseCase creates a new FirstMessageUseCase instance. bot may
// be nil, in which case every Slack operation fails with ErrBotNotConfigured.
func NewFirstMessageUseCase(repo interfaces.Repository, bot slack.Client, now func() time.Time) *FirstMessageUseCase {
	return &FirstMessageUseCase{repo: repo, bot: bot, now: now}
}

// IsEnabled reports whether a bot client is configured
func (uc *FirstMessageUseCase) IsEnabled() bool {
	return uc.bot != nil
}

// Assign joins every public channel and stores its first message unless one
// is already stored. It returns the number of newly stored messages.
func (uc *FirstMessageUseCase) Assign(ctx context.Context) (int, error) {
	if uc.bot == nil {
		return 0, ErrBotNotConfigured
	}
	logger := logging.From(ctx)

	var inserted int
	for page, err := range slack.Conversations(ctx, uc.bot, slack.ScopeBot) {
		if err != nil {
			return inserted, goerr.Wrap(err, "failed to enumerate public channels")
		}

		for _, conv := range page {
			msg, err := slack.FirstMessage(ctx, uc.bot, conv.ID())
			if err != nil {
				return inserted, goerr.Wrap(err, "failed to read first message",
					goerr.V(model.ChannelIDKey, conv.ID()))
			}
			if msg == nil {
				continue
			}

			first := &model.FirstMessage{
				ChannelID:   conv.ID(),
				ChannelName: conv.Name(),
				MessageTS:   msg.TS(),
				UserID:      msg.UserID(),
				Content:     msg.Text(),
				CreatedAt:   uc.now(),
			}
			ok, err := uc.repo.FirstMessage().InsertIfAbsent(ctx, first)
			if err != nil {
				logger.Error("failed to store first message",
					"error", err.Error(),
					model.ChannelIDKey, conv.ID())
				continue
			}
			if ok {
				inserted++
			}
		}
	}

	logger.Info("first messages assigned", "inserted", inserted)
	return inserted, nil
}

// RunAssignJob is Assign shaped as a periodic job
func (uc *FirstMessageUseCase) RunAssignJob(ctx context.Context) error {
	_, err := uc.Assign(ctx)
	return err
}

// List returns every stored first message ordered by channel ID
func (uc *FirstMessageUseCase) List(ctx context.Context) ([]*model.FirstMessage, error) {
	msgs, err := uc.repo.FirstMessage().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list first messages")
	}
	return msgs, nil
}

// LatestMessage joins the first public channel and returns its newest
// message. ErrNoChannel and ErrNoMessage report empty results.
func (uc *FirstMessageUseCase) LatestMessage(ctx context.Context) (*LatestMessage, error) {
	if uc.bot == nil {
		return nil, ErrBotNotConfigured
	}

	convs, _, err := uc.bot.ListConversations(ctx, slack.ConversationQuery{
		Types: slack.BotConversationTypes(),
		Limit: 1,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list public channels")
	}
	if len(convs) == 0 {
		return nil, ErrNoChannel
	}
	conv := convs[0]

	if err := uc.bot.JoinConversation(ctx, conv.ID()); err != nil {
		return nil, goerr.Wrap(err, "failed to join channel", goerr.V(model.ChannelIDKey, conv.ID()))
	}

	msg, err := slack.LatestMessage(ctx, uc.bot, conv.ID())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read latest message", goerr.V(model.ChannelIDKey, conv.ID()))
	}
	if msg == nil {
		return nil, goerr.Wrap(ErrNoMessage, "channel is empty", goerr.V(model.ChannelIDKey, conv.ID()))
	}

	return &LatestMessage{
		ChannelID:   conv.ID(),
		ChannelName: conv.Name(),
		MessageTS:   msg.TS(),
		UserID:      msg.UserID(),
		Content:     msg.Text(),
	}, nil
}
