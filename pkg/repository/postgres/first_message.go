package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type firstMessageRepository struct {
	pool *pgxpool.Pool
}

func (r *firstMessageRepository) InsertIfAbsent(ctx context.Context, msg *model.FirstMessage) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid first message")
	}

	tag, err := r.pool.Exec(ctx, `
INSERT INTO first_messages (channel_id, channel_name, message_ts, user_id, message_content, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (channel_id) DO NOTHING`,
		msg.ChannelID, msg.ChannelName, msg.MessageTS, msg.UserID, msg.Content, msg.CreatedAt)
	if err != nil {
		return false, goerr.Wrap(err, "failed to insert first message", goerr.V(model.ChannelIDKey, msg.ChannelID))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *firstMessageRepository) List(ctx context.Context) ([]*model.FirstMessage, error) {
	rows, err := r.pool.Query(ctx, `
SELECT channel_id, channel_name, message_ts, user_id, message_content, created_at
FROM first_messages
ORDER BY channel_id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query first messages")
	}
	defer rows.Close()

	result := make([]*model.FirstMessage, 0)
	for rows.Next() {
		var m model.FirstMessage
		if err := rows.Scan(&m.ChannelID, &m.ChannelName, &m.MessageTS, &m.UserID, &m.Content, &m.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan first message")
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate first messages")
	}
	return result, nil
}
