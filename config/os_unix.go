//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// CleanFileName makes string usable as a single path element.
func CleanFileName(in string) string {
	return cleanFileName(in, string(os.PathSeparator)+string(os.PathListSeparator))
}

// EnableColorOutput checks if stream is attached to terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
