package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// FirstMessage is the oldest message of a public channel, recorded once per
// channel.
type FirstMessage struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	MessageTS   string    `json:"message_ts"`
	UserID      string    `json:"user_slack_id"`
	Content     string    `json:"message_content"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *FirstMessage) Validate() error {
	if f.ChannelID == "" {
		return goerr.Wrap(ErrMissingRequired, "channel ID is required")
	}
	if f.MessageTS == "" {
		return goerr.Wrap(ErrMissingRequired, "message ts is required", goerr.V(ChannelIDKey, f.ChannelID))
	}
	return nil
}
