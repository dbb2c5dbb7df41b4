package model

import "github.com/m-mizutani/goerr/v2"

var (
	ErrMissingRequired = goerr.New("required field is missing")
)

// Context keys for error values
const (
	UserIDKey      = "user_id"
	WorkspaceIDKey = "workspace_id"
	ChannelIDKey   = "channel_id"
	MessageTSKey   = "message_ts"
)
