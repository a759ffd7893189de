// Package misc keeps program identity values set at build time.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by the linker: -ldflags "-X pager/misc.version=... -X pager/misc.gitHash=...".
var (
	version = "dev"
	gitHash = "unknown"
	appName = ""
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns the hash of the commit program was built from.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name without extension.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	if strings.HasSuffix(name, ".test") {
		// running under go test
		return "pager"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) == 0 {
		return "pager"
	}
	return name
}
