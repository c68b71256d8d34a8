package app

import (
	"context"
	"errors"
	"fmt"

	"renice/internal/priority"
)

// Run validates opts and performs a single round, or loops forever in watch
// mode until a round fails or ctx is cancelled. Cancellation ends a watch
// cleanly.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	class, err := opts.Validate()
	if err != nil {
		return err
	}
	if !opts.Watch {
		return a.round(ctx, opts, class)
	}
	return a.watch(ctx, opts, class)
}

func (a *App) watch(ctx context.Context, opts RunOptions, class priority.Class) error {
	if opts.Dummy {
		a.log.Logf("Reporting priority every %s", opts.Interval)
	} else {
		a.log.Logf("Setting priority to %s every %s", class, opts.Interval)
	}

	for {
		if err := a.round(ctx, opts, class); err != nil {
			a.log.AfterStatus()
			a.log.Log("Watch stopped: a round failed")
			return err
		}
		if err := sleepFor(ctx, opts.Interval); err != nil {
			a.log.AfterStatus()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func (a *App) round(ctx context.Context, opts RunOptions, class priority.Class) error {
	res, err := a.Resolve(ctx, opts.resolveParams())
	if err != nil {
		return err
	}
	if len(res.IDs) == 0 {
		if opts.Watch {
			a.log.Status("No matching process ids found")
		} else {
			a.log.Log("No matching process ids found")
		}
		return nil
	}

	out := a.Distribute(ctx, DistributeParams{
		IDs:     res.IDs,
		Class:   class,
		Dummy:   opts.Dummy,
		Verbose: opts.Verbose,
		handles: res.handles,
	})
	if !opts.Watch {
		a.log.AfterStatus()
	}
	if out.Failed {
		return fmt.Errorf("%w: %w", ErrRoundFailed, out.Err)
	}
	return nil
}
