//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

// CleanFileName removes characters not allowed in file names.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(`<>":/\|?*`+string(os.PathSeparator)+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, in)
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

func windows10OrLater() bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber")
	return err == nil && v >= 10
}

// EnableColorOutput checks if colorized output is possible and turns on VT100
// sequence processing in console.
func EnableColorOutput(stream *os.File) bool {
	if !windows10OrLater() || !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	const enableVirtualTerminalProcessing uint32 = 0x4

	var mode uint32
	h := windows.Handle(stream.Fd())
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|enableVirtualTerminalProcessing) == nil
}
