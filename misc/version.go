// Package misc keeps build-time program identification.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Values below are overwritten by the linker, e.g.
// -ldflags "-X stylebridge/misc.version=1.2.3 -X stylebridge/misc.gitHash=abcdef".
var (
	version = "dev"
	gitHash = "unknown"
	appName = "stylebridge"
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name without extension. When binary was renamed
// the actual executable name is used so logs and reports do not collide.
func GetAppName() string {
	if exe, err := os.Executable(); err == nil {
		name := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
		if len(name) > 0 && !strings.HasSuffix(name, ".test") {
			return name
		}
	}
	return appName
}
