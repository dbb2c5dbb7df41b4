package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/repository/firestore"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
	"github.com/secmon-lab/mentiondeck/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const defaultFirestoreDatabaseID = "(default)"

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var prefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes for the mentions collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("MENTIONDECK_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Value:       defaultFirestoreDatabaseID,
				Sources:     cli.EnvVars("MENTIONDECK_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix prepended to collection names",
				Sources:     cli.EnvVars("MENTIONDECK_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &prefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			if databaseID == "" {
				databaseID = defaultFirestoreDatabaseID
			}
			logger.Info("Migrate configuration",
				"project_id", projectID,
				"database_id", databaseID,
				"collection_prefix", prefix,
				"dry_run", dryRun)

			indexConfig := getIndexConfig(prefix)
			client, err := fireconf.New(ctx, projectID, databaseID, indexConfig,
				fireconf.WithLogger(logger))
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer safe.Close(ctx, client)

			if dryRun {
				names := make([]string, 0, len(indexConfig.Collections))
				for _, col := range indexConfig.Collections {
					names = append(names, col.Name)
				}
				current, err := client.Import(ctx, names...)
				if err != nil {
					return goerr.Wrap(err, "failed to import current indexes")
				}
				diff, err := client.DiffConfigs(current)
				if err != nil {
					return goerr.Wrap(err, "failed to diff index configuration")
				}
				logIndexDiff(logger, diff)
				return nil
			}

			logger.Info("Applying index migrations")
			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}
			logger.Info("Index migrations applied")
			return nil
		},
	}
}

// logIndexDiff logs one line per pending index change and returns how many
// there are.
func logIndexDiff(logger *slog.Logger, diff *fireconf.DiffResult) int {
	var changes int
	for _, col := range diff.Collections {
		for _, idx := range col.IndexesToAdd {
			changes++
			logger.Info("Planned index change",
				"collection", col.Name,
				"operation", "create",
				"fields", indexFieldPaths(idx))
		}
		for _, idx := range col.IndexesToDelete {
			changes++
			logger.Info("Planned index change",
				"collection", col.Name,
				"operation", "delete",
				"fields", indexFieldPaths(idx))
		}
	}

	if changes == 0 {
		logger.Info("Indexes are up to date")
	}
	return changes
}

func indexFieldPaths(idx fireconf.Index) []string {
	paths := make([]string, len(idx.Fields))
	for i, f := range idx.Fields {
		paths[i] = f.Path + " " + string(f.Order)
	}
	return paths
}

// getIndexConfig returns the composite indexes the Firestore repository
// queries depend on. Equality-only lookups need no composite index.
func getIndexConfig(prefix string) *fireconf.Config {
	name := firestore.MentionsCollection
	if prefix != "" {
		name = prefix + "_" + name
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: name,
				Indexes: []fireconf.Index{
					// ListVisible: user_id, visible, workspace_id ASC, channel_name ASC, message_ts DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "user_id", Order: fireconf.OrderAscending},
							{Path: "visible", Order: fireconf.OrderAscending},
							{Path: "workspace_id", Order: fireconf.OrderAscending},
							{Path: "channel_name", Order: fireconf.OrderAscending},
							{Path: "message_ts", Order: fireconf.OrderDescending},
						},
					},
				},
			},
		},
	}
}
