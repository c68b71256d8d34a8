//go:build darwin || freebsd

package proc

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"

	"renice/internal/priority"
)

func readClass(ctx context.Context, p *process.Process) (priority.Class, error) {
	nice, err := p.NiceWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return priority.ClassForHost(int(nice)), nil
}
