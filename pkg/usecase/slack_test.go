package usecase_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	slackmodel "github.com/secmon-lab/mentiondeck/pkg/domain/model/slack"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	libslack "github.com/slack-go/slack"
)

// fakeWorkspace is what one token can see
type fakeWorkspace struct {
	conversations []slackmodel.Conversation
	pageSize      int
	history       map[string][]slackmodel.Message
	users         map[string]*slack.User

	listErr    error
	historyErr map[string]error
}

// fakeSlack serves fake workspaces by token
type fakeSlack struct {
	mu         sync.Mutex
	workspaces map[string]*fakeWorkspace
	joined     []string
	tokens     []string
}

func newFakeSlack() *fakeSlack {
	return &fakeSlack{workspaces: map[string]*fakeWorkspace{}}
}

func (f *fakeSlack) add(token string, ws *fakeWorkspace) *fakeSlack {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces[token] = ws
	return f
}

func (f *fakeSlack) factory() slack.Factory {
	return func(token string) (slack.Client, error) {
		if token == "" {
			return nil, goerr.New("Slack token is required")
		}
		f.mu.Lock()
		f.tokens = append(f.tokens, token)
		f.mu.Unlock()
		return &fakeClient{parent: f, token: token}, nil
	}
}

func (f *fakeSlack) client(token string) slack.Client {
	return &fakeClient{parent: f, token: token}
}

func (f *fakeSlack) joinedChannels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.joined...)
}

type fakeClient struct {
	parent *fakeSlack
	token  string
}

var _ slack.Client = &fakeClient{}

func (c *fakeClient) workspace() (*fakeWorkspace, error) {
	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	ws, ok := c.parent.workspaces[c.token]
	if !ok {
		return nil, libslack.SlackErrorResponse{Err: "invalid_auth"}
	}
	return ws, nil
}

func (c *fakeClient) ListConversations(_ context.Context, query slack.ConversationQuery) ([]slackmodel.Conversation, string, error) {
	ws, err := c.workspace()
	if err != nil {
		return nil, "", err
	}
	if ws.listErr != nil {
		return nil, "", ws.listErr
	}

	size := ws.pageSize
	if query.Limit > 0 && (size == 0 || query.Limit < size) {
		size = query.Limit
	}
	if size == 0 {
		size = len(ws.conversations)
	}

	start := 0
	if query.Cursor != "" {
		start, _ = strconv.Atoi(query.Cursor)
	}
	end := min(start+size, len(ws.conversations))

	next := ""
	if end < len(ws.conversations) {
		next = strconv.Itoa(end)
	}
	return ws.conversations[start:end], next, nil
}

func (c *fakeClient) JoinConversation(_ context.Context, channelID string) error {
	if _, err := c.workspace(); err != nil {
		return err
	}
	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	c.parent.joined = append(c.parent.joined, channelID)
	return nil
}

func (c *fakeClient) GetConversationHistory(_ context.Context, query slack.HistoryQuery) ([]slackmodel.Message, error) {
	ws, err := c.workspace()
	if err != nil {
		return nil, err
	}
	if err := ws.historyErr[query.ChannelID]; err != nil {
		return nil, err
	}

	// Stored newest first, like Slack
	msgs := ws.history[query.ChannelID]
	if query.Oldest == "0" && len(msgs) > 0 {
		return []slackmodel.Message{msgs[len(msgs)-1]}, nil
	}
	if query.Limit > 0 && len(msgs) > query.Limit {
		msgs = msgs[:query.Limit]
	}
	return append([]slackmodel.Message(nil), msgs...), nil
}

func (c *fakeClient) GetUserInfo(_ context.Context, userID string) (*slack.User, error) {
	ws, err := c.workspace()
	if err != nil {
		return nil, err
	}
	user, ok := ws.users[userID]
	if !ok {
		return nil, libslack.SlackErrorResponse{Err: "user_not_found"}
	}
	return user, nil
}

func conv(id, name string) slackmodel.Conversation {
	return slackmodel.NewConversationFromData(id, name)
}

func msg(ts, userID, text string) slackmodel.Message {
	return slackmodel.NewMessageFromData(ts, userID, text)
}
