package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type mentionRepository struct {
	pool *pgxpool.Pool
}

func (r *mentionRepository) InsertIfAbsent(ctx context.Context, mention *model.Mention) (bool, error) {
	if err := mention.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid mention")
	}

	tag, err := r.pool.Exec(ctx, `
INSERT INTO mentions (message_ts, workspace_id, user_id, channel_name, message_content, visible, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)
ON CONFLICT (message_ts, workspace_id) DO NOTHING`,
		mention.MessageTS, mention.WorkspaceID, mention.UserID, mention.ChannelName, mention.Content, mention.CreatedAt)
	if err != nil {
		return false, goerr.Wrap(err, "failed to insert mention",
			goerr.V(model.MessageTSKey, mention.MessageTS),
			goerr.V(model.WorkspaceIDKey, mention.WorkspaceID))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *mentionRepository) ListVisible(ctx context.Context, userID string) ([]*model.Mention, error) {
	rows, err := r.pool.Query(ctx, `
SELECT message_ts, workspace_id, user_id, channel_name, message_content, created_at
FROM mentions
WHERE user_id = $1 AND visible
ORDER BY workspace_id ASC, channel_name ASC, message_ts DESC`, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query mentions", goerr.V(model.UserIDKey, userID))
	}
	defer rows.Close()

	result := make([]*model.Mention, 0)
	for rows.Next() {
		var m model.Mention
		if err := rows.Scan(&m.MessageTS, &m.WorkspaceID, &m.UserID, &m.ChannelName, &m.Content, &m.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan mention")
		}
		m.Visible = true
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate mentions")
	}
	return result, nil
}

func (r *mentionRepository) Hide(ctx context.Context, ts string) (int, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE mentions SET visible = FALSE WHERE message_ts = $1 AND visible`, ts)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to hide mention", goerr.V(model.MessageTSKey, ts))
	}
	return int(tag.RowsAffected()), nil
}
