package model

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Authorization is a user's credential for one workspace, obtained through
// the install flow. (UserID, WorkspaceID) is unique; re-installing replaces
// the token.
type Authorization struct {
	UserID        string
	WorkspaceID   string
	WorkspaceName string
	AccessToken   string `masq:"secret"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the fields required for storage.
func (a *Authorization) Validate() error {
	if a.UserID == "" {
		return goerr.Wrap(ErrMissingRequired, "user ID is required")
	}
	if a.WorkspaceID == "" {
		return goerr.Wrap(ErrMissingRequired, "workspace ID is required", goerr.V(UserIDKey, a.UserID))
	}
	if a.AccessToken == "" {
		return goerr.Wrap(ErrMissingRequired, "access token is required",
			goerr.V(UserIDKey, a.UserID),
			goerr.V(WorkspaceIDKey, a.WorkspaceID))
	}
	return nil
}

func (a Authorization) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user_id", a.UserID),
		slog.String("workspace_id", a.WorkspaceID),
		slog.String("workspace_name", a.WorkspaceName),
		slog.Int("token.len", len(a.AccessToken)),
	)
}
