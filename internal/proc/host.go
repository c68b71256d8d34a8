package proc

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"

	"renice/internal/priority"
)

// Host is the Source backed by the running operating system.
type Host struct {
	self int
}

// NewHost returns a Source for the local machine.
func NewHost() *Host {
	return &Host{self: os.Getpid()}
}

// Self returns the current process id.
func (h *Host) Self() int {
	return h.self
}

// List snapshots every process visible to the caller.
func (h *Host) List(ctx context.Context) ([]Process, error) {
	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]Process, 0, len(ps))
	for _, p := range ps {
		out = append(out, &hostProcess{p: p})
	}
	return out, nil
}

// Open acquires a handle to pid, failing with ErrNotFound if it is gone.
func (h *Host) Open(ctx context.Context, pid int) (Process, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("%w: invalid pid %d", ErrNotFound, pid)
	}
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return nil, fmt.Errorf("%w: pid %d", ErrNotFound, pid)
		}
		return nil, fmt.Errorf("open pid %d: %w", pid, err)
	}
	return &hostProcess{p: p}, nil
}

type hostProcess struct {
	p *process.Process
}

func (hp *hostProcess) PID() int {
	return int(hp.p.Pid)
}

func (hp *hostProcess) Name(ctx context.Context) (string, error) {
	return hp.p.NameWithContext(ctx)
}

func (hp *hostProcess) Cmdline(ctx context.Context) (string, error) {
	return hp.p.CmdlineWithContext(ctx)
}

// WindowTitle is the main window's title on Windows and "" elsewhere, so
// title matching only applies on Windows hosts.
func (hp *hostProcess) WindowTitle(ctx context.Context) (string, error) {
	return windowTitle(ctx, hp.p.Pid)
}

func (hp *hostProcess) Priority(ctx context.Context) (priority.Class, error) {
	class, err := readClass(ctx, hp.p)
	if err != nil {
		return 0, fmt.Errorf("read priority of pid %d: %w", hp.p.Pid, err)
	}
	return class, nil
}

func (hp *hostProcess) SetPriority(ctx context.Context, class priority.Class) error {
	if err := writeClass(ctx, hp.p, class); err != nil {
		return fmt.Errorf("set priority of pid %d to %s: %w", hp.p.Pid, class, err)
	}
	return nil
}
