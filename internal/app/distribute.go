package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"renice/internal/priority"
	"renice/internal/proc"
)

// DistributeParams configures one distribution round.
type DistributeParams struct {
	IDs     []int
	Class   priority.Class
	Dummy   bool
	Verbose bool

	handles map[int]proc.Process
}

// Distribute applies (or, in dummy mode, reports) the target class for every
// id in turn. A failing id is reported and skipped; it never aborts the round.
func (a *App) Distribute(ctx context.Context, params DistributeParams) DistributeResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	var result DistributeResult
	for _, pid := range params.IDs {
		event := a.distributeOne(ctx, pid, params)
		if event.Kind == KindFailure {
			result.Failed = true
			result.Err = multierr.Append(result.Err, event.Err)
			a.log.Errorf("Can't set priority on %d: %v", pid, event.Err)
		}
		result.Events = append(result.Events, event)
	}
	return result
}

// DistributeOnce runs a single round and reports whether any id failed.
func (a *App) DistributeOnce(ctx context.Context, ids []int, class priority.Class, dummy, verbose bool) bool {
	return a.Distribute(ctx, DistributeParams{
		IDs:     ids,
		Class:   class,
		Dummy:   dummy,
		Verbose: verbose,
	}).Failed
}

func (a *App) distributeOne(ctx context.Context, pid int, params DistributeParams) DistributeEvent {
	event := DistributeEvent{PID: pid, To: params.Class}

	p, ok := params.handles[pid]
	if !ok {
		var err error
		p, err = a.source.Open(ctx, pid)
		if err != nil {
			return failure(event, err)
		}
	}

	current, err := p.Priority(ctx)
	if err != nil {
		return failure(event, err)
	}
	event.From = current

	if params.Dummy {
		return a.observe(event)
	}

	if current == params.Class {
		event.Kind = KindAlready
		if params.Verbose {
			a.log.Statusf("%d already has priority %s", pid, current)
		}
		return event
	}

	if err := p.SetPriority(ctx, params.Class); err != nil {
		return failure(event, err)
	}
	event.Kind = KindReniced
	if params.Verbose {
		a.log.Logf("%d: %s -> %s", pid, current, params.Class)
	}
	return event
}

// observe reports the current class without changing it. Repeated sightings
// share one overwritten status line; a real transition since the previous
// round gets its own persistent line.
func (a *App) observe(event DistributeEvent) DistributeEvent {
	pid, current := event.PID, event.From
	prev, seen := a.observed[pid]
	a.observed[pid] = current

	switch {
	case !seen:
		event.Kind = KindObserved
		a.log.Statusf("%d has priority %s", pid, current)
	case prev != current:
		event.Kind = KindChanged
		event.From, event.To = prev, current
		a.log.AfterStatus()
		a.log.Logf("%d priority changed from %s to %s", pid, prev, current)
	default:
		event.Kind = KindUnchanged
		a.log.Statusf("%d priority unchanged (%s)", pid, current)
	}
	return event
}

func failure(event DistributeEvent, err error) DistributeEvent {
	event.Kind = KindFailure
	event.Err = fmt.Errorf("%w: %w", ErrProcessUnavailable, err)
	return event
}
