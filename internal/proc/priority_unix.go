//go:build linux || darwin || freebsd

package proc

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"

	"renice/internal/priority"
)

func writeClass(_ context.Context, p *process.Process, class priority.Class) error {
	return unix.Setpriority(unix.PRIO_PROCESS, int(p.Pid), priority.Representative(class))
}
