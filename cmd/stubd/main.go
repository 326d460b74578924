// stubd CLI - Command-line interface for the stubd mock server
package main

import "github.com/getstubd/stubd/pkg/cli"

// Build-time variables set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = buildDate
	cli.Execute()
}
