//go:build windows

package cmdline

import "golang.org/x/sys/windows"

// RawCommandLine returns the command line exactly as the process received it.
func RawCommandLine() string {
	return windows.UTF16PtrToString(windows.GetCommandLine())
}
