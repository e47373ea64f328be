//go:build unix

package toolchain

import "golang.org/x/sys/unix"

// executable reports whether the current user may execute path.
func executable(path string) bool {
	return Exists(path) && unix.Access(path, unix.X_OK) == nil
}
