package cli

var (
	GetIndexConfig = getIndexConfig
	LogIndexDiff   = logIndexDiff
	NewRunners     = newRunners
	NewUseCases    = newUseCases
)
