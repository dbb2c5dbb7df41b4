package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"github.com/secmon-lab/mentiondeck/pkg/utils/safe"
)

type mentionRepository struct {
	db *sql.DB
}

func (r *mentionRepository) InsertIfAbsent(ctx context.Context, mention *model.Mention) (bool, error) {
	if err := mention.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid mention")
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO mentions (message_ts, workspace_id, user_id, channel_name, message_content, visible, created_at_unix)
VALUES (?, ?, ?, ?, ?, 1, ?)
ON CONFLICT (message_ts, workspace_id) DO NOTHING
`, mention.MessageTS, mention.WorkspaceID, mention.UserID, mention.ChannelName, mention.Content, mention.CreatedAt.Unix())
	if err != nil {
		return false, goerr.Wrap(err, "failed to insert mention",
			goerr.V(model.MessageTSKey, mention.MessageTS),
			goerr.V(model.WorkspaceIDKey, mention.WorkspaceID))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get affected rows")
	}
	return n > 0, nil
}

func (r *mentionRepository) ListVisible(ctx context.Context, userID string) ([]*model.Mention, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT message_ts, workspace_id, user_id, channel_name, message_content, created_at_unix
FROM mentions
WHERE user_id = ? AND visible = 1
ORDER BY workspace_id ASC, channel_name ASC, message_ts DESC
`, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query mentions", goerr.V(model.UserIDKey, userID))
	}
	defer safe.Close(ctx, rows)

	result := make([]*model.Mention, 0)
	for rows.Next() {
		var (
			m         model.Mention
			createdAt int64
		)
		if err := rows.Scan(&m.MessageTS, &m.WorkspaceID, &m.UserID, &m.ChannelName, &m.Content, &createdAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan mention")
		}
		m.Visible = true
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate mentions")
	}

	return result, nil
}

func (r *mentionRepository) Hide(ctx context.Context, ts string) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE mentions SET visible = 0 WHERE message_ts = ? AND visible = 1`, ts)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to hide mention", goerr.V(model.MessageTSKey, ts))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get affected rows")
	}
	return int(n), nil
}
