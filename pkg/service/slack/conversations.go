package slack

import (
	"context"
	"iter"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	slackmodel "github.com/secmon-lab/mentiondeck/pkg/domain/model/slack"
)

// Scope selects which conversations are enumerated and how
type Scope int

const (
	// ScopeUser enumerates every conversation type visible to a user token
	ScopeUser Scope = iota
	// ScopeBot enumerates public channels and joins each of them
	ScopeBot
)

var (
	userConversationTypes = []string{"public_channel", "private_channel", "mpim", "im"}
	botConversationTypes  = []string{"public_channel"}
)

// UserConversationTypes returns the conversation types read with user tokens
func UserConversationTypes() []string {
	return slices.Clone(userConversationTypes)
}

// BotConversationTypes returns the conversation types read with the bot token
func BotConversationTypes() []string {
	return slices.Clone(botConversationTypes)
}

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Conversations returns a lazy sequence of conversation pages reachable by
// client. The next page is requested only when the consumer asks for it. An
// error is yielded once and ends the sequence.
func Conversations(ctx context.Context, client Client, scope Scope) iter.Seq2[[]slackmodel.Conversation, error] {
	return func(yield func([]slackmodel.Conversation, error) bool) {
		query := ConversationQuery{Types: UserConversationTypes()}
		if scope == ScopeBot {
			// Archived channels cannot be joined
			query = ConversationQuery{Types: BotConversationTypes(), ExcludeArchived: true}
		}

		for {
			page, next, err := client.ListConversations(ctx, query)
			if err != nil {
				yield(nil, goerr.Wrap(err, "failed to enumerate conversations", goerr.V("scope", scope.String())))
				return
			}

			if scope == ScopeBot {
				for _, conv := range page {
					if err := client.JoinConversation(ctx, conv.ID()); err != nil {
						yield(nil, goerr.Wrap(err, "failed to join channel",
							goerr.V("channel_id", conv.ID()),
							goerr.V("channel_name", conv.Name())))
						return
					}
				}
			}

			if !yield(page, nil) {
				return
			}
			if next == "" {
				return
			}
			query.Cursor = next
		}
	}
}
