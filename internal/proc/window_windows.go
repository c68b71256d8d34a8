//go:build windows

package proc

import (
	"context"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const maxTitleLen = 512

var (
	procGetWindowTextW = windows.NewLazySystemDLL("user32.dll").NewProc("GetWindowTextW")

	// EnumWindows callbacks are a scarce resource; one is shared and the
	// search it serves is serialized by titleMu.
	titleMu      sync.Mutex
	titleSearch  titleQuery
	enumCallback = windows.NewCallback(visitWindow)
)

type titleQuery struct {
	pid   uint32
	title string
}

// windowTitle returns the text of the first visible, titled top-level window
// owned by pid.
func windowTitle(_ context.Context, pid int32) (string, error) {
	titleMu.Lock()
	defer titleMu.Unlock()

	titleSearch = titleQuery{pid: uint32(pid)}
	// Stopping early makes EnumWindows report failure; only a miss matters.
	_ = windows.EnumWindows(enumCallback, nil)
	return titleSearch.title, nil
}

func visitWindow(hwnd windows.HWND, _ uintptr) uintptr {
	var owner uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &owner); err != nil || owner != titleSearch.pid {
		return 1
	}
	if !windows.IsWindowVisible(hwnd) {
		return 1
	}
	buf := make([]uint16, maxTitleLen)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return 1
	}
	titleSearch.title = windows.UTF16ToString(buf[:n])
	return 0
}
