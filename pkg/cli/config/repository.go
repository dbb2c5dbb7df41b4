package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/types"
	"github.com/secmon-lab/mentiondeck/pkg/repository/firestore"
	"github.com/secmon-lab/mentiondeck/pkg/repository/memory"
	"github.com/secmon-lab/mentiondeck/pkg/repository/postgres"
	"github.com/secmon-lab/mentiondeck/pkg/repository/sqlite"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const defaultSQLitePath = "mentiondeck.db"

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend     string
	sqlitePath  string
	postgresDSN string
	projectID   string
	databaseID  string
	prefix      string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (sqlite, memory, postgres or firestore)",
			Category:    "Repository",
			Value:       types.RepositoryBackendSQLite.String(),
			Sources:     cli.EnvVars("MENTIONDECK_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file (sqlite backend)",
			Category:    "Repository",
			Value:       defaultSQLitePath,
			Sources:     cli.EnvVars("MENTIONDECK_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL connection string (required when using postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("MENTIONDECK_POSTGRES_DSN"),
			Destination: &r.postgresDSN,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("MENTIONDECK_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("MENTIONDECK_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix prepended to Firestore collection names",
			Category:    "Repository",
			Sources:     cli.EnvVars("MENTIONDECK_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.prefix,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("sqlite_path", r.sqlitePath),
		slog.Bool("postgres_dsn", r.postgresDSN != ""),
		slog.String("firestore_project_id", r.projectID),
		slog.String("firestore_database_id", r.databaseID),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	backend, err := types.ParseRepositoryBackend(r.backend)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(BackendKey, r.backend))
	}

	switch backend {
	case types.RepositoryBackendSQLite:
		path := r.sqlitePath
		if path == "" {
			path = defaultSQLitePath
		}
		repo, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite repository", goerr.V("path", path))
		}
		logging.Default().Info("Using SQLite repository", "path", path)
		return repo, nil

	case types.RepositoryBackendPostgres:
		if r.postgresDSN == "" {
			return nil, goerr.Wrap(ErrMissingOption, "postgres-dsn is required when using postgres backend",
				goerr.V(OptionKey, "postgres-dsn"))
		}
		repo, err := postgres.New(ctx, r.postgresDSN)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository")
		}
		logging.Default().Info("Using PostgreSQL repository")
		return repo, nil

	case types.RepositoryBackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingOption, "firestore-project-id is required when using firestore backend",
				goerr.V(OptionKey, "firestore-project-id"))
		}
		var opts []firestore.Option
		if r.prefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.prefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
			"collection_prefix", r.prefix,
		)
		return repo, nil

	default:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil
	}
}
