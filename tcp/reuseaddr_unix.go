//go:build !windows

package tcp

import "syscall"

// setReuseAddr enables SO_REUSEADDR on the listening socket before bind,
// matching the teacher's own posix/windows split (connipc_posix.go /
// connipc_windows.go) for platform-specific socket setup.
func setReuseAddr(fd uintptr) error {
	return syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
}
