package types

import "fmt"

// LogFormat is the output format of the process logger
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// IsValid checks if the log format is valid
func (f LogFormat) IsValid() bool {
	switch f {
	case LogFormatConsole, LogFormatJSON:
		return true
	default:
		return false
	}
}

// String returns the string representation of the log format
func (f LogFormat) String() string {
	return string(f)
}

// ParseLogFormat parses a string into a LogFormat
func ParseLogFormat(s string) (LogFormat, error) {
	f := LogFormat(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid log format: %s", s)
	}
	return f, nil
}
