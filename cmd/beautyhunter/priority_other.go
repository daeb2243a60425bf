//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package main

// Run with nice -n -10 where the platform has it.
func setHighPriority() error {
	return nil
}
