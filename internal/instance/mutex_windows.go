//go:build windows

package instance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// Acquire creates the named mutex, first is false when it already existed.
// The name stays taken while the handle is open.
func Acquire(instance string) (release func(), first bool, err error) {
	name, err := objectName(instance)
	if err != nil { return nil, false, err }

	handle, err := windows.CreateMutex(nil, false, windows.StringToUTF16Ptr(`Local\quill-`+name))
	if handle == 0 { return nil, false, fmt.Errorf("create mutex: %w", err) }

	release = func() { windows.CloseHandle(handle) }
	return release, !errors.Is(err, windows.ERROR_ALREADY_EXISTS), nil
}
