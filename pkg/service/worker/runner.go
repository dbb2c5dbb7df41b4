package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/secmon-lab/mentiondeck/pkg/utils/errutil"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

// Job is a unit of periodic work. A returned error is logged and the job is
// run again at the next scheduled time.
type Job func(ctx context.Context) error

// Runner runs a Job once at start and then on every tick of a cron.Schedule
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Runs never overlap; a slow run delays the next one
type Runner struct {
	name     string
	job      Job
	schedule cron.Schedule
	now      func() time.Time
	grace    time.Duration

	cancel    context.CancelFunc
	startOnce sync.Once
	stopOnce  sync.Once
	started   chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithClock replaces the clock used to compute the next run
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithGracePeriod sets how long Stop waits for an in-flight job before
// cancelling its context
func WithGracePeriod(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.grace = d
	}
}

// NewRunner creates a Runner. name identifies the job in logs.
func NewRunner(name string, job Job, schedule cron.Schedule, opts ...RunnerOption) *Runner {
	r := &Runner{
		name:     name,
		job:      job,
		schedule: schedule,
		now:      time.Now,
		grace:    30 * time.Second,
		started:  make(chan struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ParseSchedule returns a standard cron schedule when expr is set, otherwise
// a fixed interval schedule.
func ParseSchedule(expr string, interval time.Duration) (cron.Schedule, error) {
	if expr != "" {
		schedule, err := cron.ParseStandard(expr)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid cron expression", goerr.V("schedule", expr))
		}
		return schedule, nil
	}

	if interval < time.Second {
		return nil, goerr.New("interval must be at least 1s", goerr.V("interval", interval.String()))
	}
	return cron.Every(interval), nil
}

// Start begins the background loop. It does not block.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		logging.From(ctx).Info("worker starting", "worker", r.name)
		ctx, r.cancel = context.WithCancel(ctx)
		close(r.started)
		go r.run(ctx)
	})
}

// Stop signals the runner to stop and waits for the in-flight run to finish.
// A run still going after the grace period has its context cancelled.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})

	select {
	case <-r.started:
		timer := time.NewTimer(r.grace)
		select {
		case <-r.doneCh:
		case <-timer.C:
			logging.Default().Warn("worker job exceeded grace period, cancelling", "worker", r.name, "grace", r.grace.String())
			r.cancel()
			<-r.doneCh
		}
		timer.Stop()
		r.cancel()
	default:
	}
	logging.Default().Info("worker stopped", "worker", r.name)
}

func (r *Runner) run(ctx context.Context) {
	defer close(r.doneCh)

	r.execute(ctx)

	for {
		now := r.now()
		wait := r.schedule.Next(now).Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			r.execute(ctx)

		case <-r.stopCh:
			timer.Stop()
			return

		case <-ctx.Done():
			timer.Stop()
			logging.From(ctx).Info("worker context cancelled", "worker", r.name)
			return
		}
	}
}

func (r *Runner) execute(ctx context.Context) {
	startTime := time.Now()
	logger := logging.From(ctx).With("worker", r.name)
	ctx = logging.With(ctx, logger)

	if err := r.job(ctx); err != nil {
		_ = errutil.Handle(ctx, err, "worker job failed (will retry next schedule)")
		return
	}

	logger.Info("worker job completed", "duration", time.Since(startTime).String())
}
