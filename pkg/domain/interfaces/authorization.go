package interfaces

import (
	"context"

	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

// AuthorizationRepository stores per-user workspace credentials.
type AuthorizationRepository interface {
	// Put inserts or replaces the credential for (UserID, WorkspaceID).
	// CreatedAt of an existing row is kept.
	Put(ctx context.Context, auth *model.Authorization) error

	// ListByUser returns every credential of userID ordered by workspace ID.
	ListByUser(ctx context.Context, userID string) ([]*model.Authorization, error)

	// ListAll returns every stored credential ordered by user and workspace ID.
	ListAll(ctx context.Context) ([]*model.Authorization, error)
}
