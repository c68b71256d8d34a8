package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"renice/internal/match"
	"renice/internal/priority"
)

var (
	// ErrInvalidArgument marks validation failures that stop a run before any
	// process is touched.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingNiceness is returned when no target niceness was given.
	ErrMissingNiceness = fmt.Errorf("%w: no niceness specified (use -n)", ErrInvalidArgument)
	// ErrMissingTargets is returned when neither ids nor patterns were given.
	ErrMissingTargets = fmt.Errorf("%w: no process ids or match patterns specified (use -p or -m)", ErrInvalidArgument)
	// ErrProcessUnavailable marks a per-id failure: the process is gone or
	// access was denied.
	ErrProcessUnavailable = errors.New("process unavailable")
	// ErrRoundFailed is returned when at least one id in a round failed.
	ErrRoundFailed = errors.New("unable to process all targets")
)

// RunOptions is the resolved configuration for one invocation.
type RunOptions struct {
	Niceness    int
	NicenessSet bool
	PIDs        []int
	Matches     []string
	Watch       bool
	Interval    time.Duration
	Dummy       bool
	Verbose     bool
}

// Validate checks everything that must hold before any process is touched
// and returns the target class.
func (o RunOptions) Validate() (priority.Class, error) {
	if !o.NicenessSet {
		return 0, ErrMissingNiceness
	}
	class, err := priority.ClassFor(o.Niceness)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if len(o.PIDs) == 0 && len(o.Matches) == 0 {
		return 0, ErrMissingTargets
	}
	for _, pid := range o.PIDs {
		if pid <= 0 {
			return 0, fmt.Errorf("%w: invalid pid %d", ErrInvalidArgument, pid)
		}
	}
	for _, pattern := range o.Matches {
		if strings.TrimSpace(pattern) == "" {
			return 0, fmt.Errorf("%w: match patterns must not be empty", ErrInvalidArgument)
		}
		if _, err := match.Compile(pattern); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}
	if o.Watch && o.Interval <= 0 {
		return 0, fmt.Errorf("%w: interval must be greater than 0", ErrInvalidArgument)
	}
	return class, nil
}

func (o RunOptions) resolveParams() ResolveParams {
	return ResolveParams{PIDs: o.PIDs, Matches: o.Matches, Verbose: o.Verbose}
}

// Event kinds reported by Distribute.
const (
	KindObserved  = "observed"
	KindUnchanged = "unchanged"
	KindChanged   = "changed"
	KindAlready   = "already"
	KindReniced   = "reniced"
	KindFailure   = "failure"
)

// DistributeEvent describes what happened to one id during a round.
type DistributeEvent struct {
	Kind string
	PID  int
	From priority.Class
	To   priority.Class
	Err  error
}

// DistributeResult aggregates a round.
type DistributeResult struct {
	Events []DistributeEvent
	// Failed is true when at least one id could not be processed.
	Failed bool
	// Err combines every per-id error.
	Err error
}

// Count returns how many events have the given kind.
func (r DistributeResult) Count(kind string) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
