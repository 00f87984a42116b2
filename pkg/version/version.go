// Package version holds the build version of vn.
package version

import "runtime/debug"

// Version is set at build time with
// -ldflags "-X github.com/vanderheijden86/vidnav/pkg/version.Version=v1.2.3".
// Without it the module version recorded by `go install` is used.
var Version = "dev"

func init() {
	if Version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
