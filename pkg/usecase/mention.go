package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"golang.org/x/sync/singleflight"
)

// MentionUseCase serves stored mentions to the overlay
type MentionUseCase struct {
	repo interfaces.Repository
	scan *ScanUseCase

	refreshes singleflight.Group
}

// NewMentionUseCase creates a new MentionUseCase instance
func NewMentionUseCase(repo interfaces.Repository, scan *ScanUseCase) *MentionUseCase {
	return &MentionUseCase{
		repo: repo,
		scan: scan,
	}
}

// List returns the visible mentions of userID with workspace names. It only
// reads the store.
func (uc *MentionUseCase) List(ctx context.Context, userID string) ([]*model.MentionView, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "user ID is required")
	}

	mentions, err := uc.repo.Mention().ListVisible(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list mentions", goerr.V(model.UserIDKey, userID))
	}

	auths, err := uc.repo.Authorization().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list authorizations", goerr.V(model.UserIDKey, userID))
	}
	workspaceNames := make(map[string]string, len(auths))
	for _, auth := range auths {
		workspaceNames[auth.WorkspaceID] = auth.WorkspaceName
	}

	views := make([]*model.MentionView, 0, len(mentions))
	for _, m := range mentions {
		views = append(views, &model.MentionView{
			MessageTS:     m.MessageTS,
			UserID:        m.UserID,
			WorkspaceID:   m.WorkspaceID,
			WorkspaceName: workspaceNames[m.WorkspaceID],
			ChannelName:   m.ChannelName,
			Content:       m.Content,
		})
	}
	return views, nil
}

// ScanAndList scans every workspace of userID, then lists. Scan failures
// are reported, not returned as errors.
func (uc *MentionUseCase) ScanAndList(ctx context.Context, userID string) ([]*model.MentionView, []*model.ScanReport, error) {
	if userID == "" {
		return nil, nil, goerr.Wrap(ErrInvalidInput, "user ID is required")
	}

	reports, err := uc.scan.ScanUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	views, err := uc.List(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return views, reports, nil
}

// Refresh scans every workspace of userID and discards the reports.
// Concurrent refreshes of the same user share one scan.
func (uc *MentionUseCase) Refresh(ctx context.Context, userID string) error {
	if userID == "" {
		return goerr.Wrap(ErrInvalidInput, "user ID is required")
	}
	_, err, _ := uc.refreshes.Do(userID, func() (any, error) {
		_, err := uc.scan.ScanUser(ctx, userID)
		return nil, err
	})
	return err
}

// Hide hides every mention with ts and returns the number of rows changed
func (uc *MentionUseCase) Hide(ctx context.Context, ts string) (int, error) {
	if ts == "" {
		return 0, goerr.Wrap(ErrInvalidInput, "message ts is required")
	}

	changes, err := uc.repo.Mention().Hide(ctx, ts)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to hide mention", goerr.V(model.MessageTSKey, ts))
	}
	return changes, nil
}
