package slack

import (
	"context"

	slackmodel "github.com/secmon-lab/mentiondeck/pkg/domain/model/slack"
)

// DefaultHistoryLimit is the number of recent messages fetched per conversation
const DefaultHistoryLimit = 100

// History returns up to limit most recent messages of a conversation. A
// non-positive limit falls back to DefaultHistoryLimit.
func History(ctx context.Context, client Client, channelID string, limit int) ([]slackmodel.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return client.GetConversationHistory(ctx, HistoryQuery{
		ChannelID: channelID,
		Limit:     limit,
	})
}

// FirstMessage returns the oldest message of a conversation, or nil when the
// conversation has no messages.
func FirstMessage(ctx context.Context, client Client, channelID string) (*slackmodel.Message, error) {
	msgs, err := client.GetConversationHistory(ctx, HistoryQuery{
		ChannelID: channelID,
		Limit:     1,
		Oldest:    "0",
		Inclusive: true,
	})
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}

// LatestMessage returns the newest message of a conversation, or nil when the
// conversation has no messages.
func LatestMessage(ctx context.Context, client Client, channelID string) (*slackmodel.Message, error) {
	msgs, err := History(ctx, client, channelID, 1)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}
