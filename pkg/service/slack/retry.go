package slack

import (
	"context"
	"errors"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// transientErrors are Slack error codes worth another attempt. Any other
// API-level error (invalid_auth, token_revoked, missing_scope, not_in_channel,
// ...) is returned immediately.
var transientErrors = map[string]bool{
	"ratelimited":         true,
	"internal_error":      true,
	"fatal_error":         true,
	"service_unavailable": true,
	"request_timeout":     true,
}

// call runs fn with a per-attempt timeout and retries transient failures with
// exponential backoff. Rate-limited attempts wait at least Retry-After.
func (c *client) call(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.initialInterval
	exp.Multiplier = 2
	exp.MaxInterval = c.maxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	for attempt := 0; ; attempt++ {
		err := c.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !IsRetryable(err) || attempt >= c.maxRetries {
			return err
		}

		wait := exp.NextBackOff()
		var rl *slack.RateLimitedError
		if errors.As(err, &rl) && rl.RetryAfter > wait {
			wait = rl.RetryAfter
		}

		logging.From(ctx).Warn("retrying Slack API call",
			"method", method,
			"attempt", attempt+1,
			"wait", wait,
			"error", err.Error())

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return goerr.Wrap(ctx.Err(), "canceled while waiting to retry", goerr.V("method", method))
		}
	}
}

func (c *client) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}
	return fn(ctx)
}

// IsRetryable reports whether err is a transient Slack failure: rate limits,
// 5xx responses, transient API error codes, network errors and per-call
// timeouts.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		return true
	}

	var apiErr slack.SlackErrorResponse
	if errors.As(err, &apiErr) {
		return transientErrors[apiErr.Err]
	}

	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}

	return true
}
