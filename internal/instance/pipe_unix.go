//go:build !windows

package instance

import (
	"net"
	"os"
	"path/filepath"
	"time"
)

func address(name string) string {
	return filepath.Join(os.TempDir(), "quill-"+name+".sock")
}

// listen is only called by the lock owner, so a leftover socket belongs to a dead primary.
func listen(addr string) (net.Listener, error) {
	_ = os.Remove(addr)
	return net.Listen("unix", addr)
}

func dial(addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", addr, timeout)
}
