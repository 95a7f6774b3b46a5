// Package console handles Windows console quirks: detecting a double-click
// launch and delivering Ctrl+C after SDL has installed its own handler.
package console

import (
	"log"
	"os"
	"strings"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	ctrlCEvent     = 0
	ctrlBreakEvent = 1
	ctrlCloseEvent = 2
)

var procSetConsoleCtrlHandler = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetConsoleCtrlHandler")

// LaunchedFromExplorer reports whether the parent process is explorer.exe,
// i.e. the program was double-clicked rather than started from a terminal.
func LaunchedFromExplorer() bool {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(snap)

	names := make(map[uint32]string)
	parents := make(map[uint32]uint32)
	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		names[entry.ProcessID] = windows.UTF16ToString(entry.ExeFile[:])
		parents[entry.ProcessID] = entry.ParentProcessID
	}

	parent, ok := parents[uint32(os.Getpid())]
	if !ok {
		return false
	}
	return strings.EqualFold(names[parent], "explorer.exe")
}

// handler state lives in a package variable because the Windows callback
// cannot capture Go values.
var (
	shutdownCh chan struct{}
	closed     int32
	callback   uintptr
)

// SetupConsoleHandler closes shutdown on Ctrl+C, Ctrl+Break or console
// close. Go's os.Interrupt delivery is unreliable once SDL has called
// SetConsoleCtrlHandler itself, so the returned function re-registers our
// handler and should be called again after SDL init.
func SetupConsoleHandler(shutdown chan struct{}) func() {
	shutdownCh = shutdown
	callback = windows.NewCallback(func(ctrlType uint32) uintptr {
		switch ctrlType {
		case ctrlCEvent, ctrlBreakEvent, ctrlCloseEvent:
			if atomic.CompareAndSwapInt32(&closed, 0, 1) {
				close(shutdownCh)
			}
			return 1
		}
		return 0
	})

	register := func() {
		if ret, _, _ := procSetConsoleCtrlHandler.Call(callback, 1); ret == 0 {
			log.Printf("Warning: Failed to set Windows console control handler")
		}
	}
	register()
	return register
}
