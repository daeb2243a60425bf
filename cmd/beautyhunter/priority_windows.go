//go:build windows

package main

import (
	"syscall"
	"unsafe"
)

// Windows priority constants
const (
	HIGH_PRIORITY_CLASS         = 0x00000080
	ABOVE_NORMAL_PRIORITY_CLASS = 0x00008000
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	procGetCurrentProcess     = kernel32.NewProc("GetCurrentProcess")
	procSetPriorityClass      = kernel32.NewProc("SetPriorityClass")
	procSetProcessInformation = kernel32.NewProc("SetProcessInformation")
)

// setHighPriority moves the process to HIGH_PRIORITY_CLASS, falling back to
// ABOVE_NORMAL_PRIORITY_CLASS, and opts out of power throttling.
func setHighPriority() error {
	handle, _, _ := procGetCurrentProcess.Call()

	// REALTIME can freeze the system
	if ret, _, err := procSetPriorityClass.Call(handle, HIGH_PRIORITY_CLASS); ret == 0 {
		if ret, _, _ := procSetPriorityClass.Call(handle, ABOVE_NORMAL_PRIORITY_CLASS); ret == 0 {
			return err
		}
	}

	// Efficiency Mode, Windows 10 1709+
	_ = disableProcessorPowerThrottling(handle)
	return nil
}

func disableProcessorPowerThrottling(handle uintptr) error {
	const ProcessPowerThrottling = 4
	const PROCESS_POWER_THROTTLING_EXECUTION_SPEED = 0x1

	type PROCESS_POWER_THROTTLING_STATE struct {
		Version     uint32
		ControlMask uint32
		StateMask   uint32
	}

	state := PROCESS_POWER_THROTTLING_STATE{
		Version:     1,
		ControlMask: PROCESS_POWER_THROTTLING_EXECUTION_SPEED,
		StateMask:   0, // 0 = disable throttling
	}

	ret, _, err := procSetProcessInformation.Call(
		handle,
		ProcessPowerThrottling,
		uintptr(unsafe.Pointer(&state)),
		unsafe.Sizeof(state),
	)
	if ret == 0 {
		return err
	}
	return nil
}
