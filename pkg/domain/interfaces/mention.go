package interfaces

import (
	"context"

	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

// MentionRepository owns mention rows. Rows are never deleted; the only
// mutation after insert is hiding.
type MentionRepository interface {
	// InsertIfAbsent stores mention unless a row with the same
	// (MessageTS, WorkspaceID) exists. A conflict returns (false, nil) and
	// leaves the stored row, including its visibility, untouched.
	InsertIfAbsent(ctx context.Context, mention *model.Mention) (bool, error)

	// ListVisible returns visible mentions of userID ordered by workspace ID,
	// channel name ascending, then MessageTS descending.
	ListVisible(ctx context.Context, userID string) ([]*model.Mention, error)

	// Hide marks every row with ts as not visible and returns the number of
	// rows changed. Unknown or already hidden ts yields 0.
	Hide(ctx context.Context, ts string) (int, error)
}
