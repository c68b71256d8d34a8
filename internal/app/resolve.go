package app

import (
	"context"
	"fmt"
	"strings"

	"renice/internal/match"
	"renice/internal/proc"
)

// ResolveParams selects the processes a round acts on.
type ResolveParams struct {
	PIDs    []int
	Matches []string
	Verbose bool
}

// Resolution is the id list for one round.
type Resolution struct {
	// IDs holds explicit ids followed by each pattern's matches, in pattern
	// order. Duplicates are kept.
	IDs  []int
	Hits []match.Hit

	// handles reuses the snapshot taken for matching.
	handles map[int]proc.Process
}

// Resolve combines explicit ids with the current matches of every pattern.
// Patterns are evaluated against a fresh process snapshot on every call.
func (a *App) Resolve(ctx context.Context, params ResolveParams) (Resolution, error) {
	res := Resolution{IDs: append([]int(nil), params.PIDs...)}
	if len(params.Matches) == 0 {
		return res, nil
	}

	if a.progress != nil {
		a.progress.Start()
		defer a.progress.Stop()
	}

	procs, err := a.source.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list processes: %w", err)
	}
	res.handles = make(map[int]proc.Process, len(procs))
	for _, p := range procs {
		res.handles[p.PID()] = p
	}

	matcher := match.New(a.source.Self())
	for _, pattern := range params.Matches {
		if params.Verbose {
			a.log.Logf("Attempting to match processes with '%s'", pattern)
		}
		hits, err := matcher.FindMatching(ctx, pattern, procs)
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		for _, h := range hits {
			if params.Verbose {
				a.log.Log(describeHit(h))
			}
			res.IDs = append(res.IDs, h.PID)
			res.Hits = append(res.Hits, h)
		}
	}
	return res, nil
}

// ResolveIDs is Resolve reduced to the id list.
func (a *App) ResolveIDs(ctx context.Context, pids []int, patterns []string) ([]int, error) {
	res, err := a.Resolve(ctx, ResolveParams{PIDs: pids, Matches: patterns})
	if err != nil {
		return nil, err
	}
	return res.IDs, nil
}

func describeHit(h match.Hit) string {
	cmd := h.Cmdline
	if strings.TrimSpace(cmd) == "" {
		cmd = h.Name
	}
	if strings.TrimSpace(h.WindowTitle) == "" {
		return fmt.Sprintf("match: %s", cmd)
	}
	return fmt.Sprintf("match: %s (%s)", cmd, h.WindowTitle)
}
