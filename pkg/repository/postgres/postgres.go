package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS mentions (
  message_ts      TEXT NOT NULL,
  workspace_id    TEXT NOT NULL,
  user_id         TEXT NOT NULL,
  channel_name    TEXT NOT NULL DEFAULT '',
  message_content TEXT NOT NULL DEFAULT '',
  visible         BOOLEAN NOT NULL DEFAULT TRUE,
  created_at      TIMESTAMPTZ NOT NULL,
  UNIQUE (message_ts, workspace_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_mentions_user_visible ON mentions (user_id, visible)`,
	`CREATE TABLE IF NOT EXISTS authorizations (
  user_id        TEXT NOT NULL,
  workspace_id   TEXT NOT NULL,
  workspace_name TEXT NOT NULL DEFAULT '',
  access_token   TEXT NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL,
  updated_at     TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (user_id, workspace_id)
)`,
	`CREATE TABLE IF NOT EXISTS users (
  slack_id   TEXT NOT NULL UNIQUE,
  name       TEXT NOT NULL DEFAULT '',
  email      TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS first_messages (
  channel_id      TEXT NOT NULL UNIQUE,
  channel_name    TEXT NOT NULL DEFAULT '',
  message_ts      TEXT NOT NULL,
  user_id         TEXT NOT NULL DEFAULT '',
  message_content TEXT NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL
)`,
}

// Postgres stores everything in a PostgreSQL database reached through a
// connection pool.
type Postgres struct {
	pool          *pgxpool.Pool
	mention       *mentionRepository
	authorization *authorizationRepository
	user          *userRepository
	firstMessage  *firstMessageRepository
}

var _ interfaces.Repository = &Postgres{}

// New connects to dsn and creates missing tables.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, goerr.New("postgres DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to connect to postgres")
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, goerr.Wrap(err, "failed to migrate postgres schema")
		}
	}

	return &Postgres{
		pool:          pool,
		mention:       &mentionRepository{pool: pool},
		authorization: &authorizationRepository{pool: pool},
		user:          &userRepository{pool: pool},
		firstMessage:  &firstMessageRepository{pool: pool},
	}, nil
}

func (p *Postgres) Mention() interfaces.MentionRepository {
	return p.mention
}

func (p *Postgres) Authorization() interfaces.AuthorizationRepository {
	return p.authorization
}

func (p *Postgres) User() interfaces.UserRepository {
	return p.user
}

func (p *Postgres) FirstMessage() interfaces.FirstMessageRepository {
	return p.firstMessage
}

func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
