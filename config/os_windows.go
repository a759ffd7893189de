//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// device names cannot be used as file names regardless of extension
var reservedNames = []string{
	"CON", "PRN", "AUX", "NUL",
	"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
	"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
}

// CleanFileName makes string usable as a single path element.
func CleanFileName(in string) string {
	out := strings.TrimRight(cleanFileName(in, `<>":/\|?*`), ". ")
	stem, _, _ := strings.Cut(out, ".")
	for _, name := range reservedNames {
		if strings.EqualFold(stem, name) {
			return "_" + out
		}
	}
	if len(out) == 0 {
		return badFileName
	}
	return out
}

// EnableColorOutput turns on VT100 sequence processing for console stream.
// Consoles before Windows 10 do not support it.
func EnableColorOutput(stream *os.File) bool {
	if windows.RtlGetVersion().MajorVersion < 10 {
		return false
	}
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
