//go:build windows

package instance

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

func address(name string) string {
	return `\\.\pipe\quill-` + name
}

func listen(addr string) (net.Listener, error) {
	return winio.ListenPipe(addr, nil)
}

func dial(addr string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(addr, &timeout)
}
