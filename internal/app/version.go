package app

import "fmt"

// Build metadata, set with ldflags:
//
//	go build -ldflags "-X github.com/heartmarshall/dualtrack-backend/internal/app.Version=1.2.0" ./cmd/server
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is reported in startup logs and by the health probe.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
