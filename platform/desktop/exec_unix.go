//go:build unix

package desktop

import "golang.org/x/sys/unix"

func executable(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}
