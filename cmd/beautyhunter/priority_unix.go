//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package main

import "syscall"

// highNiceness needs CAP_SYS_NICE or root on most systems.
const highNiceness = -10

func setHighPriority() error {
	return syscall.Setpriority(syscall.PRIO_PROCESS, 0, highNiceness)
}
