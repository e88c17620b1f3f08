package api

// Version information - these will be set at build time via ldflags
var (
	HubVersion = "dev"
	GitCommit  = "unknown"
	BuildTime  = "unknown"
)

// GetVersionInfo returns the current version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		HubVersion: HubVersion,
		GitCommit:  GitCommit,
		BuildTime:  BuildTime,
	}
}
