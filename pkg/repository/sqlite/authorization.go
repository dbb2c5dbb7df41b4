package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"github.com/secmon-lab/mentiondeck/pkg/utils/safe"
)

type authorizationRepository struct {
	db *sql.DB
}

func (r *authorizationRepository) Put(ctx context.Context, auth *model.Authorization) error {
	if err := auth.Validate(); err != nil {
		return goerr.Wrap(err, "invalid authorization")
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO authorizations (user_id, workspace_id, workspace_name, access_token, created_at_unix, updated_at_unix)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, workspace_id) DO UPDATE SET
  workspace_name = excluded.workspace_name,
  access_token = excluded.access_token,
  updated_at_unix = excluded.updated_at_unix
`, auth.UserID, auth.WorkspaceID, auth.WorkspaceName, auth.AccessToken, auth.CreatedAt.Unix(), auth.UpdatedAt.Unix())
	if err != nil {
		return goerr.Wrap(err, "failed to put authorization",
			goerr.V(model.UserIDKey, auth.UserID),
			goerr.V(model.WorkspaceIDKey, auth.WorkspaceID))
	}
	return nil
}

const selectAuthorizations = `
SELECT user_id, workspace_id, workspace_name, access_token, created_at_unix, updated_at_unix
FROM authorizations`

func (r *authorizationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Authorization, error) {
	return r.query(ctx, selectAuthorizations+` WHERE user_id = ? ORDER BY workspace_id`, userID)
}

func (r *authorizationRepository) ListAll(ctx context.Context) ([]*model.Authorization, error) {
	return r.query(ctx, selectAuthorizations+` ORDER BY user_id, workspace_id`)
}

func (r *authorizationRepository) query(ctx context.Context, query string, args ...any) ([]*model.Authorization, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query authorizations")
	}
	defer safe.Close(ctx, rows)

	result := make([]*model.Authorization, 0)
	for rows.Next() {
		var (
			a                    model.Authorization
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&a.UserID, &a.WorkspaceID, &a.WorkspaceName, &a.AccessToken, &createdAt, &updatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan authorization")
		}
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		a.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate authorizations")
	}
	return result, nil
}
