//go:build windows

package proc

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/windows"

	"renice/internal/priority"
)

var windowsClasses = map[priority.Class]uint32{
	priority.RealTime:    windows.REALTIME_PRIORITY_CLASS,
	priority.High:        windows.HIGH_PRIORITY_CLASS,
	priority.AboveNormal: windows.ABOVE_NORMAL_PRIORITY_CLASS,
	priority.Normal:      windows.NORMAL_PRIORITY_CLASS,
	priority.BelowNormal: windows.BELOW_NORMAL_PRIORITY_CLASS,
	priority.Idle:        windows.IDLE_PRIORITY_CLASS,
}

func readClass(_ context.Context, p *process.Process) (priority.Class, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(p.Pid))
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(h)

	raw, err := windows.GetPriorityClass(h)
	if err != nil {
		return 0, err
	}
	for class, v := range windowsClasses {
		if v == raw {
			return class, nil
		}
	}
	return 0, fmt.Errorf("unknown priority class 0x%x", raw)
}

func writeClass(_ context.Context, p *process.Process, class priority.Class) error {
	v, ok := windowsClasses[class]
	if !ok {
		return fmt.Errorf("unknown priority class %s", class)
	}
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, uint32(p.Pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.SetPriorityClass(h, v)
}
