package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type userRepository struct {
	db *sql.DB
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (slack_id, name, email, created_at_unix) VALUES (?, ?, ?, ?)
ON CONFLICT (slack_id) DO NOTHING
`, user.SlackID, user.Name, user.Email, user.CreatedAt.Unix())
	if err != nil {
		return goerr.Wrap(err, "failed to insert user", goerr.V(model.UserIDKey, user.SlackID))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to get affected rows")
	}
	if n == 0 {
		return goerr.Wrap(interfaces.ErrAlreadyExists, "user already exists", goerr.V(model.UserIDKey, user.SlackID))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, slackID string) (*model.User, error) {
	var (
		u         model.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT slack_id, name, email, created_at_unix FROM users WHERE slack_id = ?`, slackID).
		Scan(&u.SlackID, &u.Name, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V(model.UserIDKey, slackID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, slackID))
	}

	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}
