//go:build !windows

package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

func lockPath(name string) string { return filepath.Join(os.TempDir(), "quill-"+name+".lock") }

// Acquire takes the instance lock, an flock on a file in the temp dir.
// first is false when another process holds it. The kernel drops the lock when the process dies.
func Acquire(instance string) (release func(), first bool, err error) {
	name, err := objectName(instance)
	if err != nil { return nil, false, err }

	file, err := os.OpenFile(lockPath(name), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil { return nil, false, fmt.Errorf("instance lock: %w", err) }

	fd := int(file.Fd())
	err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
	switch {
	case err == nil:
		return func() { unix.Flock(fd, unix.LOCK_UN); file.Close() }, true, nil
	case errors.Is(err, unix.EWOULDBLOCK):
		file.Close()
		return func() {}, false, nil
	}
	file.Close()
	return nil, false, fmt.Errorf("instance lock %s: %w", lockPath(name), err)
}
