// Package version exposes the build metadata stamped into the binary.
package version

import (
	"fmt"
	"runtime"
)

// Stamped via -ldflags at release build time; the defaults identify a
// local development build.
var (
	Number = "dev"
	Commit = "none"
	Date   = "unknown"
)

// Banner returns the one-line version string the CLI prints.
func Banner() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		Number, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
