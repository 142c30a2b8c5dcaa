// Package build carries the version metadata stamped into release binaries.
package build

import "runtime/debug"

// Overridden with -ldflags on release builds. Date is YYYY-MM-DD.
var (
	Version = "DEV"
	Date    = ""
)

// Plain `go install module@version` builds carry no ldflags; fall back to
// the module version recorded in the binary's build info.
func init() {
	if Version != "DEV" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
