package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"github.com/secmon-lab/mentiondeck/pkg/utils/safe"
)

type firstMessageRepository struct {
	db *sql.DB
}

func (r *firstMessageRepository) InsertIfAbsent(ctx context.Context, msg *model.FirstMessage) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid first message")
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO first_messages (channel_id, channel_name, message_ts, user_id, message_content, created_at_unix)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (channel_id) DO NOTHING
`, msg.ChannelID, msg.ChannelName, msg.MessageTS, msg.UserID, msg.Content, msg.CreatedAt.Unix())
	if err != nil {
		return false, goerr.Wrap(err, "failed to insert first message", goerr.V(model.ChannelIDKey, msg.ChannelID))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get affected rows")
	}
	return n > 0, nil
}

func (r *firstMessageRepository) List(ctx context.Context) ([]*model.FirstMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT channel_id, channel_name, message_ts, user_id, message_content, created_at_unix
FROM first_messages
ORDER BY channel_id
`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query first messages")
	}
	defer safe.Close(ctx, rows)

	result := make([]*model.FirstMessage, 0)
	for rows.Next() {
		var (
			m         model.FirstMessage
			createdAt int64
		)
		if err := rows.Scan(&m.ChannelID, &m.ChannelName, &m.MessageTS, &m.UserID, &m.Content, &createdAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan first message")
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate first messages")
	}
	return result, nil
}
