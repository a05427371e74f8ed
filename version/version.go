// version/version.go
package version

import (
	"runtime"

	"go.uber.org/zap"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/dalemusser/emailcheck/version.Version=1.0.0 \
//	                   -X github.com/dalemusser/emailcheck/version.Commit=abc123 \
//	                   -X github.com/dalemusser/emailcheck/version.BuildTime=2024-01-15T10:30:00Z" \
//	    ./cmd/emailcheck
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build description of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build info.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// Fields returns the info as zap fields for a startup log line.
func (i Info) Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", i.Version),
		zap.String("commit", i.Commit),
		zap.String("build_time", i.BuildTime),
		zap.String("go_version", i.GoVersion),
	}
}
