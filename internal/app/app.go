package app

import (
	"context"
	"sync"
	"time"

	"renice/internal/priority"
	"renice/internal/proc"
	"renice/internal/statuslog"
)

// Progress is shown while process patterns are being resolved.
type Progress interface {
	Start()
	Stop()
}

// Options configures the top-level controller.
type Options struct {
	// Source enumerates and opens processes. Defaults to the local host.
	Source proc.Source
	// Log receives all user-facing output. Defaults to stdout/stderr.
	Log *statuslog.Logger
	// Progress, when set, is started around pattern resolution.
	Progress Progress
}

// App exposes the resolution, distribution and watch operations that the
// CLI and TUI share. Each App owns its own last-observed priority cache, so
// separate runs never share state.
type App struct {
	source   proc.Source
	log      *statuslog.Logger
	progress Progress

	// mu serializes distribution rounds; observed is only touched under it.
	mu       sync.Mutex
	observed map[int]priority.Class
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	a := &App{
		source:   opts.Source,
		log:      opts.Log,
		progress: opts.Progress,
		observed: make(map[int]priority.Class),
	}
	if a.source == nil {
		a.source = proc.NewHost()
	}
	if a.log == nil {
		a.log = statuslog.New(statuslog.Options{})
	}
	return a
}

var sleepFor = sleepContext

func resetSleep() {
	sleepFor = sleepContext
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
