// Package proc exposes the small slice of OS process access renice needs:
// enumerating processes, reading identifying strings, and reading or writing
// the scheduling priority class.
package proc

import (
	"context"
	"errors"

	"renice/internal/priority"
)

// ErrNotFound is returned when a process id no longer refers to a live process.
var ErrNotFound = errors.New("process not found")

// Process is a handle to a live OS process. It owns nothing beyond its id;
// every accessor queries the OS and may fail if the process has exited.
type Process interface {
	PID() int
	Name(ctx context.Context) (string, error)
	Cmdline(ctx context.Context) (string, error)
	// WindowTitle returns the main window title, or "" where the host has none.
	WindowTitle(ctx context.Context) (string, error)
	Priority(ctx context.Context) (priority.Class, error)
	SetPriority(ctx context.Context, class priority.Class) error
}

// Source enumerates and opens processes.
type Source interface {
	List(ctx context.Context) ([]Process, error)
	Open(ctx context.Context, pid int) (Process, error)
	// Self returns the id of the calling process.
	Self() int
}
