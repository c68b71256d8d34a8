package proc

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"

	"renice/internal/priority"
)

// The raw getpriority syscall on Linux returns 20-nice so the result is
// never negative; gopsutil passes that value through unchanged.
const kernelNiceOffset = 20

func readClass(_ context.Context, p *process.Process) (priority.Class, error) {
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, int(p.Pid))
	if err != nil {
		return 0, err
	}
	return priority.ClassForHost(niceFromKernel(raw)), nil
}

func niceFromKernel(raw int) int {
	return kernelNiceOffset - raw
}
