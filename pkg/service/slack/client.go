package slack

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	slackmodel "github.com/secmon-lab/mentiondeck/pkg/domain/model/slack"
	"github.com/slack-go/slack"
)

const (
	DefaultCallTimeout     = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 10 * time.Second

	defaultPageSize = 200
)

// client implements Client on top of slack-go
type client struct {
	api *slack.Client

	apiURL          string
	httpClient      *http.Client
	callTimeout     time.Duration
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

// Option is a functional option for client configuration
type Option func(*client)

// WithAPIURL points the client at another Slack API endpoint. The URL must
// end with "/".
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithCallTimeout bounds each API call attempt
func WithCallTimeout(d time.Duration) Option {
	return func(c *client) {
		c.callTimeout = d
	}
}

// WithMaxRetries sets how many times a transient failure is retried. Zero
// disables retries.
func WithMaxRetries(n int) Option {
	return func(c *client) {
		c.maxRetries = n
	}
}

// WithRetryInterval sets the exponential backoff bounds
func WithRetryInterval(initial, maxInterval time.Duration) Option {
	return func(c *client) {
		c.initialInterval = initial
		c.maxInterval = maxInterval
	}
}

// New creates a Client for token
func New(token string, opts ...Option) (Client, error) {
	if token == "" {
		return nil, goerr.New("Slack token is required")
	}

	c := &client{
		callTimeout:     DefaultCallTimeout,
		maxRetries:      DefaultMaxRetries,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	if c.httpClient != nil {
		apiOpts = append(apiOpts, slack.OptionHTTPClient(c.httpClient))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// NewFactory returns a Factory creating clients with opts
func NewFactory(opts ...Option) Factory {
	return func(token string) (Client, error) {
		return New(token, opts...)
	}
}

func (c *client) ListConversations(ctx context.Context, query ConversationQuery) ([]slackmodel.Conversation, string, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	params := &slack.GetConversationsParameters{
		Types:           query.Types,
		Cursor:          query.Cursor,
		Limit:           limit,
		ExcludeArchived: query.ExcludeArchived,
	}

	var (
		channels   []slack.Channel
		nextCursor string
	)
	err := c.call(ctx, "conversations.list", func(ctx context.Context) error {
		var err error
		channels, nextCursor, err = c.api.GetConversationsContext(ctx, params)
		return err
	})
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to list conversations", goerr.V("cursor", query.Cursor))
	}

	convs := make([]slackmodel.Conversation, 0, len(channels))
	for _, ch := range channels {
		convs = append(convs, slackmodel.NewConversationFromSlack(ch))
	}
	return convs, nextCursor, nil
}

func (c *client) JoinConversation(ctx context.Context, channelID string) error {
	err := c.call(ctx, "conversations.join", func(ctx context.Context) error {
		_, _, _, err := c.api.JoinConversationContext(ctx, channelID)
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to join conversation", goerr.V("channel_id", channelID))
	}
	return nil
}

func (c *client) GetConversationHistory(ctx context.Context, query HistoryQuery) ([]slackmodel.Message, error) {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: query.ChannelID,
		Limit:     query.Limit,
		Oldest:    query.Oldest,
		Inclusive: query.Inclusive,
	}

	var resp *slack.GetConversationHistoryResponse
	err := c.call(ctx, "conversations.history", func(ctx context.Context) error {
		var err error
		resp, err = c.api.GetConversationHistoryContext(ctx, params)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get conversation history", goerr.V("channel_id", query.ChannelID))
	}

	msgs := make([]slackmodel.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		msgs = append(msgs, slackmodel.NewMessageFromSlack(m))
	}
	return msgs, nil
}

func (c *client) GetUserInfo(ctx context.Context, userID string) (*User, error) {
	var user *slack.User
	err := c.call(ctx, "users.info", func(ctx context.Context) error {
		var err error
		user, err = c.api.GetUserInfoContext(ctx, userID)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", userID))
	}

	return &User{
		ID:       user.ID,
		Name:     user.Name,
		RealName: user.RealName,
		Email:    user.Profile.Email,
	}, nil
}
