package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type userRepository struct {
	pool *pgxpool.Pool
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}

	tag, err := r.pool.Exec(ctx, `
INSERT INTO users (slack_id, name, email, created_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (slack_id) DO NOTHING`,
		user.SlackID, user.Name, user.Email, user.CreatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to insert user", goerr.V(model.UserIDKey, user.SlackID))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(interfaces.ErrAlreadyExists, "user already exists", goerr.V(model.UserIDKey, user.SlackID))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, slackID string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `SELECT slack_id, name, email, created_at FROM users WHERE slack_id = $1`, slackID).
		Scan(&u.SlackID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V(model.UserIDKey, slackID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, slackID))
	}
	return &u, nil
}
