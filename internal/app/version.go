package app

// Build metadata, injected via -ldflags at release time.
var (
	Version   = "dev"
	GitTag    = ""
	BuildTime = ""
)
