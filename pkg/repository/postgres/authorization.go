package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type authorizationRepository struct {
	pool *pgxpool.Pool
}

func (r *authorizationRepository) Put(ctx context.Context, auth *model.Authorization) error {
	if err := auth.Validate(); err != nil {
		return goerr.Wrap(err, "invalid authorization")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO authorizations (user_id, workspace_id, workspace_name, access_token, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, workspace_id) DO UPDATE SET
  workspace_name = EXCLUDED.workspace_name,
  access_token = EXCLUDED.access_token,
  updated_at = EXCLUDED.updated_at`,
		auth.UserID, auth.WorkspaceID, auth.WorkspaceName, auth.AccessToken, auth.CreatedAt, auth.UpdatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to put authorization",
			goerr.V(model.UserIDKey, auth.UserID),
			goerr.V(model.WorkspaceIDKey, auth.WorkspaceID))
	}
	return nil
}

const selectAuthorizations = `
SELECT user_id, workspace_id, workspace_name, access_token, created_at, updated_at
FROM authorizations`

func (r *authorizationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Authorization, error) {
	return r.query(ctx, selectAuthorizations+` WHERE user_id = $1 ORDER BY workspace_id`, userID)
}

func (r *authorizationRepository) ListAll(ctx context.Context) ([]*model.Authorization, error) {
	return r.query(ctx, selectAuthorizations+` ORDER BY user_id, workspace_id`)
}

func (r *authorizationRepository) query(ctx context.Context, query string, args ...any) ([]*model.Authorization, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query authorizations")
	}
	defer rows.Close()

	result := make([]*model.Authorization, 0)
	for rows.Next() {
		var a model.Authorization
		if err := rows.Scan(&a.UserID, &a.WorkspaceID, &a.WorkspaceName, &a.AccessToken, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan authorization")
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate authorizations")
	}
	return result, nil
}
