package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/cli/config"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
	"github.com/secmon-lab/mentiondeck/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdScan() *cli.Command {
	var userID string
	var appFile config.AppFile
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Scan only the workspaces of this Slack user ID",
			Sources:     cli.EnvVars("MENTIONDECK_SCAN_USER"),
			Destination: &userID,
		},
	}
	flags = append(flags, appFile.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "scan",
		Usage: "Scan Slack for mentions once and exit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, err := appFile.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}
			scanCfg, err := appCfg.ScanConfig()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc, err := newUseCases(repo, scanCfg, &slackCfg)
			if err != nil {
				return err
			}

			var reports []*model.ScanReport
			if userID != "" {
				reports, err = uc.Scan.ScanUser(ctx, userID)
			} else {
				reports, err = uc.Scan.ScanAll(ctx)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to load credentials", goerr.V(model.UserIDKey, userID))
			}

			logReports(reports)
			return nil
		},
	}
}

// logReports writes one line per credential. Failed scans are logged as
// warnings and do not change the exit status.
func logReports(reports []*model.ScanReport) {
	logger := logging.Default()
	if len(reports) == 0 {
		logger.Info("No credentials to scan")
		return
	}

	var inserted int
	for _, r := range reports {
		inserted += r.Inserted
		if r.Complete() {
			logger.Info("Scan report", "report", r)
		} else {
			logger.Warn("Scan report", "report", r)
		}
	}
	logger.Info("Scan finished", "credentials", len(reports), "inserted", inserted)
}
