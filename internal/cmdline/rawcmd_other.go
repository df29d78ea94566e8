//go:build !windows

package cmdline

import "os"

// RawCommandLine rebuilds a single command line from os.Args, the shell already split it.
func RawCommandLine() string {
	return JoinArgs(os.Args)
}
