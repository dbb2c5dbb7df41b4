package usecase

import (
	"net/http"
	"time"

	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
)

type UseCases struct {
	repo         interfaces.Repository
	slackFactory slack.Factory
	botClient    slack.Client
	oauth        OAuthConfig
	httpClient   *http.Client
	historyLimit int
	concurrency  int
	now          func() time.Time

	Scan         *ScanUseCase
	Mention      *MentionUseCase
	Install      *InstallUseCase
	User         *UserUseCase
	FirstMessage *FirstMessageUseCase
}

type Option func(*UseCases)

// WithSlackFactory sets how Slack clients are created from user tokens
func WithSlackFactory(factory slack.Factory) Option {
	return func(uc *UseCases) {
		uc.slackFactory = factory
	}
}

// WithBotClient enables the bot token features (first messages, latest message)
func WithBotClient(client slack.Client) Option {
	return func(uc *UseCases) {
		uc.botClient = client
	}
}

// WithOAuth enables the install flow
func WithOAuth(cfg OAuthConfig) Option {
	return func(uc *UseCases) {
		uc.oauth = cfg
	}
}

// WithHTTPClient sets the HTTP client for the OAuth code exchange
func WithHTTPClient(hc *http.Client) Option {
	return func(uc *UseCases) {
		uc.httpClient = hc
	}
}

// WithHistoryLimit sets how many recent messages are read per conversation
func WithHistoryLimit(limit int) Option {
	return func(uc *UseCases) {
		uc.historyLimit = limit
	}
}

// WithConcurrency caps how many credentials are scanned in parallel
func WithConcurrency(n int) Option {
	return func(uc *UseCases) {
		uc.concurrency = n
	}
}

// WithClock replaces time.Now for timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		slackFactory: slack.NewFactory(),
		httpClient:   http.DefaultClient,
		historyLimit: slack.DefaultHistoryLimit,
		concurrency:  1,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Scan = NewScanUseCase(repo, uc.slackFactory,
		WithScanHistoryLimit(uc.historyLimit),
		WithScanConcurrency(uc.concurrency),
		WithScanClock(uc.now),
	)
	uc.Mention = NewMentionUseCase(repo, uc.Scan)
	uc.Install = NewInstallUseCase(repo, uc.slackFactory, uc.oauth, uc.httpClient, uc.now)
	uc.User = NewUserUseCase(repo, uc.now)
	uc.FirstMessage = NewFirstMessageUseCase(repo, uc.botClient, uc.now)

	return uc
}
