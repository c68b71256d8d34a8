//go:build !linux && !darwin && !freebsd && !windows

package proc

import (
	"context"
	"errors"

	"github.com/shirou/gopsutil/v3/process"

	"renice/internal/priority"
)

func readClass(context.Context, *process.Process) (priority.Class, error) {
	return 0, errors.ErrUnsupported
}

func writeClass(context.Context, *process.Process, priority.Class) error {
	return errors.ErrUnsupported
}
