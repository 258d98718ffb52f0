//go:build windows

package tcp

import "syscall"

// setReuseAddr enables SO_REUSEADDR on the listening socket before bind.
func setReuseAddr(fd uintptr) error {
	return syscall.SetsockoptInt(syscall.Handle(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
}
