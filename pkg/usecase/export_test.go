package usecase

// Export internal values for testing
var (
	UserScopes       = userScopes
	OverlayURLPrefix = overlayURLPrefix
)
