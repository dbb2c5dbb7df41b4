package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	slackmodel "github.com/secmon-lab/mentiondeck/pkg/domain/model/slack"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// ScanUseCase reads recent history of every conversation reachable with a
// credential and stores the mentions of its owner.
//
// Architecture assumptions:
// - Credentials are independent; one failing never stops another
// - The store's (ts, workspace) uniqueness is the only coordination between
//   concurrent scans
type ScanUseCase struct {
	repo         interfaces.Repository
	newClient    slack.Factory
	historyLimit int
	concurrency  int
	now          func() time.Time
}

// ScanOption configures a ScanUseCase
type ScanOption func(*ScanUseCase)

func WithScanHistoryLimit(limit int) ScanOption {
	return func(uc *ScanUseCase) {
		uc.historyLimit = limit
	}
}

func WithScanConcurrency(n int) ScanOption {
	return func(uc *ScanUseCase) {
		uc.concurrency = n
	}
}

func WithScanClock(now func() time.Time) ScanOption {
	return func(uc *ScanUseCase) {
		uc.now = now
	}
}

// NewScanUseCase creates a new ScanUseCase instance
func NewScanUseCase(repo interfaces.Repository, newClient slack.Factory, opts ...ScanOption) *ScanUseCase {
	uc := &ScanUseCase{
		repo:         repo,
		newClient:    newClient,
		historyLimit: slack.DefaultHistoryLimit,
		concurrency:  1,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.concurrency < 1 {
		uc.concurrency = 1
	}
	return uc
}

// ScanAuthorization scans every conversation reachable with auth. It never
// fails: a Slack error stops this credential and is recorded in the report,
// and store failures are counted per mention.
func (uc *ScanUseCase) ScanAuthorization(ctx context.Context, auth *model.Authorization) *model.ScanReport {
	scanID := uuid.NewString()
	logger := logging.From(ctx).With(
		ScanIDKey, scanID,
		model.UserIDKey, auth.UserID,
		model.WorkspaceIDKey, auth.WorkspaceID,
	)
	ctx = logging.With(ctx, logger)

	report := model.NewScanReport(scanID, auth, uc.now())
	defer func() {
		report.FinishedAt = uc.now()
		if report.Err != nil {
			logger.Warn("scan aborted", "report", report)
			return
		}
		logger.Info("scan finished", "report", report)
	}()

	client, err := uc.newClient(auth.AccessToken)
	if err != nil {
		report.Err = goerr.Wrap(err, "failed to create Slack client")
		return report
	}

	for page, err := range slack.Conversations(ctx, client, slack.ScopeUser) {
		if err != nil {
			report.Err = err
			return report
		}

		for _, conv := range page {
			msgs, err := slack.History(ctx, client, conv.ID(), uc.historyLimit)
			if err != nil {
				report.Err = goerr.Wrap(err, "failed to read conversation",
					goerr.V(model.ChannelIDKey, conv.ID()))
				return report
			}
			report.Conversations++
			report.Messages += len(msgs)

			uc.storeMentions(ctx, auth, conv, msgs, report)
		}
	}

	return report
}

// storeMentions classifies msgs in retrieval order and inserts each mention.
// Store errors are logged and counted; the loop continues.
func (uc *ScanUseCase) storeMentions(ctx context.Context, auth *model.Authorization, conv slackmodel.Conversation, msgs []slackmodel.Message, report *model.ScanReport) {
	logger := logging.From(ctx)

	for _, msg := range slackmodel.FilterMentions(msgs, auth.UserID) {
		report.Mentions++

		mention := model.NewMention(auth, conv.Name(), msg.TS(), msg.Text(), uc.now())
		inserted, err := uc.repo.Mention().InsertIfAbsent(ctx, mention)
		if err != nil {
			report.StoreFailures++
			logger.Error("failed to store mention",
				"error", err.Error(),
				"mention", mention)
			continue
		}
		if inserted {
			report.Inserted++
			logger.Debug("mention stored", "mention", mention)
		}
	}
}

// SubScans returns the credentials a scan for userID fans out to: one per
// workspace the user installed into.
func (uc *ScanUseCase) SubScans(ctx context.Context, userID string) ([]*model.Authorization, error) {
	auths, err := uc.repo.Authorization().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list authorizations", goerr.V(model.UserIDKey, userID))
	}
	return auths, nil
}

// ScanUser scans every workspace userID installed into
func (uc *ScanUseCase) ScanUser(ctx context.Context, userID string) ([]*model.ScanReport, error) {
	auths, err := uc.SubScans(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.ScanMany(ctx, auths), nil
}

// ScanAll scans every stored credential
func (uc *ScanUseCase) ScanAll(ctx context.Context) ([]*model.ScanReport, error) {
	auths, err := uc.repo.Authorization().ListAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list authorizations")
	}
	return uc.ScanMany(ctx, auths), nil
}

// ScanMany scans auths with at most the configured number of credentials in
// flight. Reports are returned in the order of auths.
func (uc *ScanUseCase) ScanMany(ctx context.Context, auths []*model.Authorization) []*model.ScanReport {
	reports := make([]*model.ScanReport, len(auths))

	var eg errgroup.Group
	eg.SetLimit(uc.concurrency)
	for i, auth := range auths {
		eg.Go(func() error {
			reports[i] = uc.ScanAuthorization(ctx, auth)
			return nil
		})
	}
	_ = eg.Wait()

	return reports
}

// RunScanJob scans every credential and summarizes the outcome. It fails only
// when credentials cannot be loaded.
func (uc *ScanUseCase) RunScanJob(ctx context.Context) error {
	reports, err := uc.ScanAll(ctx)
	if err != nil {
		return err
	}

	var failed, inserted int
	for _, r := range reports {
		inserted += r.Inserted
		if !r.Complete() {
			failed++
		}
	}
	logging.From(ctx).Info("mention scan job done",
		"credentials", len(reports),
		"incomplete", failed,
		"inserted", inserted)
	return nil
}
