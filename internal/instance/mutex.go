package instance

import (
	"errors"
	"fmt"
	"strings"
)

const maxObjectName = 64

var ErrBadInstanceName = errors.New("instance name has no usable characters")

// objectName derives the name shared by the lock, the socket and the pipe of an instance.
// Only [A-Za-z0-9._-] survive, so the result is a valid file and kernel object name.
func objectName(instance string) (string, error) {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return -1
	}, instance)

	if name == "" { return "", fmt.Errorf("%w: %q", ErrBadInstanceName, instance) }
	if len(name) > maxObjectName { name = name[:maxObjectName] }
	return name, nil
}
