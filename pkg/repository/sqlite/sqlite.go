package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
)

const schema = `
CREATE TABLE IF NOT EXISTS mentions (
  message_ts      TEXT NOT NULL,
  workspace_id    TEXT NOT NULL,
  user_id         TEXT NOT NULL,
  channel_name    TEXT NOT NULL DEFAULT '',
  message_content TEXT NOT NULL DEFAULT '',
  visible         INTEGER NOT NULL DEFAULT 1,
  created_at_unix INTEGER NOT NULL,
  UNIQUE (message_ts, workspace_id)
);
CREATE INDEX IF NOT EXISTS idx_mentions_user_visible ON mentions(user_id, visible);

CREATE TABLE IF NOT EXISTS authorizations (
  user_id         TEXT NOT NULL,
  workspace_id    TEXT NOT NULL,
  workspace_name  TEXT NOT NULL DEFAULT '',
  access_token    TEXT NOT NULL,
  created_at_unix INTEGER NOT NULL,
  updated_at_unix INTEGER NOT NULL,
  PRIMARY KEY (user_id, workspace_id)
);

CREATE TABLE IF NOT EXISTS users (
  slack_id        TEXT NOT NULL UNIQUE,
  name            TEXT NOT NULL DEFAULT '',
  email           TEXT NOT NULL DEFAULT '',
  created_at_unix INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS first_messages (
  channel_id      TEXT NOT NULL UNIQUE,
  channel_name    TEXT NOT NULL DEFAULT '',
  message_ts      TEXT NOT NULL,
  user_id         TEXT NOT NULL DEFAULT '',
  message_content TEXT NOT NULL DEFAULT '',
  created_at_unix INTEGER NOT NULL
);
`

// SQLite stores everything in a single embedded database file.
type SQLite struct {
	db            *sql.DB
	mention       *mentionRepository
	authorization *authorizationRepository
	user          *userRepository
	firstMessage  *firstMessageRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens (or creates) the database at dsn and applies the schema.
func New(ctx context.Context, dsn string) (*SQLite, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, goerr.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("dsn", dsn))
	}
	// One writer at a time; concurrent sub-scans queue here instead of
	// failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to migrate sqlite schema", goerr.V("dsn", dsn))
	}

	return &SQLite{
		db:            db,
		mention:       &mentionRepository{db: db},
		authorization: &authorizationRepository{db: db},
		user:          &userRepository{db: db},
		firstMessage:  &firstMessageRepository{db: db},
	}, nil
}

func (s *SQLite) Mention() interfaces.MentionRepository {
	return s.mention
}

func (s *SQLite) Authorization() interfaces.AuthorizationRepository {
	return s.authorization
}

func (s *SQLite) User() interfaces.UserRepository {
	return s.user
}

func (s *SQLite) FirstMessage() interfaces.FirstMessageRepository {
	return s.firstMessage
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
