package model

import (
	"log/slog"
	"time"
)

// ScanReport is the outcome of scanning one credential. Err is set when the
// scan stopped early because Slack could not be read; store failures on
// individual mentions only increase StoreFailures.
type ScanReport struct {
	ScanID        string
	UserID        string
	WorkspaceID   string
	WorkspaceName string

	Conversations int
	Messages      int
	Mentions      int
	Inserted      int
	StoreFailures int

	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// NewScanReport starts a report for auth.
func NewScanReport(scanID string, auth *Authorization, now time.Time) *ScanReport {
	return &ScanReport{
		ScanID:        scanID,
		UserID:        auth.UserID,
		WorkspaceID:   auth.WorkspaceID,
		WorkspaceName: auth.WorkspaceName,
		StartedAt:     now,
	}
}

// Complete reports whether every conversation was read and every mention
// reached the store.
func (r *ScanReport) Complete() bool {
	return r.Err == nil && r.StoreFailures == 0
}

// Status is a short machine-readable summary.
func (r *ScanReport) Status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.StoreFailures > 0:
		return "partial"
	default:
		return "ok"
	}
}

func (r ScanReport) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("scan_id", r.ScanID),
		slog.String("user_id", r.UserID),
		slog.String("workspace_id", r.WorkspaceID),
		slog.String("status", r.Status()),
		slog.Int("conversations", r.Conversations),
		slog.Int("messages", r.Messages),
		slog.Int("mentions", r.Mentions),
		slog.Int("inserted", r.Inserted),
		slog.Int("store_failures", r.StoreFailures),
		slog.Duration("duration", r.FinishedAt.Sub(r.StartedAt)),
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("error", r.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}
