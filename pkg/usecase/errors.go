package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Bot token errors
	ErrBotNotConfigured = goerr.New("Slack bot token is not configured")
	ErrNoChannel        = goerr.New("no public channels found")
	ErrNoMessage        = goerr.New("no messages found in the channel")

	// Install errors
	ErrOAuthNotConfigured = goerr.New("Slack OAuth is not configured")
	ErrInvalidCode        = goerr.New("invalid authorization code")

	// Input errors
	ErrInvalidInput = goerr.New("invalid input")
)

// Context keys for error values
const (
	ScanIDKey = "scan_id"
)
