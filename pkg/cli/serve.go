package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/cli/config"
	httpctrl "github.com/secmon-lab/mentiondeck/pkg/controller/http"
	"github.com/secmon-lab/mentiondeck/pkg/service/worker"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
	"github.com/secmon-lab/mentiondeck/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var appFile config.AppFile
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MENTIONDECK_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL for OAuth redirects (e.g., https://your-domain.com). Derived from the request host when empty",
			Sources:     cli.EnvVars("MENTIONDECK_BASE_URL"),
			Destination: &baseURL,
		},
	}

	// Add shared config flags
	flags = append(flags, appFile.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and background scan jobs",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, err := appFile.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}
			scanCfg, err := appCfg.ScanConfig()
			if err != nil {
				return err
			}
			fmCfg, err := appCfg.FirstMessageConfig()
			if err != nil {
				return err
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			logging.Default().Info("Serve configuration",
				"repository", repoCfg,
				"slack", slackCfg,
				"history_limit", scanCfg.HistoryLimit,
				"concurrency", scanCfg.Concurrency,
			)

			uc, err := newUseCases(repo, scanCfg, &slackCfg)
			if err != nil {
				return err
			}

			runners, err := newRunners(uc, scanCfg, fmCfg)
			if err != nil {
				return err
			}
			for _, r := range runners {
				r.Start(ctx)
			}
			stopRunners := func() {
				for _, r := range runners {
					r.Stop()
				}
			}

			var httpOpts []httpctrl.Options
			if baseURL != "" {
				httpOpts = append(httpOpts, httpctrl.WithBaseURL(baseURL))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				stopRunners()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop job runners first so no scan starts during shutdown
				stopRunners()

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

// newRunners builds the periodic jobs: the mention scan always, the
// first-message assignment only when enabled and a bot token is present.
func newRunners(uc *usecase.UseCases, scanCfg *config.ScanConfig, fmCfg *config.FirstMessageConfig) ([]*worker.Runner, error) {
	scanSchedule, err := worker.ParseSchedule(scanCfg.Schedule, scanCfg.Interval)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid scan schedule")
	}
	runners := []*worker.Runner{
		worker.NewRunner("mention-scan", uc.Scan.RunScanJob, scanSchedule),
	}

	if !fmCfg.Enabled || !uc.FirstMessage.IsEnabled() {
		logging.Default().Info("First-message job disabled",
			"enabled", fmCfg.Enabled,
			"bot_configured", uc.FirstMessage.IsEnabled())
		return runners, nil
	}

	fmSchedule, err := worker.ParseSchedule(fmCfg.Schedule, fmCfg.Interval)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid first-message schedule")
	}
	runners = append(runners, worker.NewRunner("first-message", uc.FirstMessage.RunAssignJob, fmSchedule))

	return runners, nil
}
