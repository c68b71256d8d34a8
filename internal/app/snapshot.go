package app

import (
	"context"
	"fmt"

	"renice/internal/priority"
	"renice/internal/proc"
)

// Target is one resolved process with its current priority, for display.
type Target struct {
	PID     int
	Name    string
	Cmdline string
	Class   priority.Class
	// Err is set when the process could not be read; other fields may be empty.
	Err error
}

// Snapshot resolves params and reads each distinct target's current state.
func (a *App) Snapshot(ctx context.Context, params ResolveParams) ([]Target, error) {
	res, err := a.Resolve(ctx, params)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(res.IDs))
	targets := make([]Target, 0, len(res.IDs))
	for _, pid := range res.IDs {
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		targets = append(targets, a.describe(ctx, pid, res.handles))
	}
	return targets, nil
}

func (a *App) describe(ctx context.Context, pid int, handles map[int]proc.Process) Target {
	t := Target{PID: pid}
	p, ok := handles[pid]
	if !ok {
		var err error
		if p, err = a.source.Open(ctx, pid); err != nil {
			t.Err = fmt.Errorf("%w: %w", ErrProcessUnavailable, err)
			return t
		}
	}
	t.Name, _ = p.Name(ctx)
	t.Cmdline, _ = p.Cmdline(ctx)
	class, err := p.Priority(ctx)
	if err != nil {
		t.Err = fmt.Errorf("%w: %w", ErrProcessUnavailable, err)
		return t
	}
	t.Class = class
	return t
}

// Apply runs one distribution round over params with the given options. It
// is the TUI's entry point and shares the dummy-mode cache with Run.
func (a *App) Apply(ctx context.Context, opts RunOptions) (DistributeResult, error) {
	class, err := opts.Validate()
	if err != nil {
		return DistributeResult{}, err
	}
	res, err := a.Resolve(ctx, opts.resolveParams())
	if err != nil {
		return DistributeResult{}, err
	}
	return a.Distribute(ctx, DistributeParams{
		IDs:     res.IDs,
		Class:   class,
		Dummy:   opts.Dummy,
		Verbose: opts.Verbose,
		handles: res.handles,
	}), nil
}
