// Package match finds processes whose window title, short name or command
// line matches a case-insensitive regular expression.
package match

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"golang.org/x/sync/errgroup"

	"renice/internal/proc"
)

// Hit describes one matching process.
type Hit struct {
	PID         int
	Name        string
	Cmdline     string
	WindowTitle string
}

// Matcher evaluates patterns against a process snapshot. A Matcher caches
// command lines by pid, so it should live for a single resolution round.
type Matcher struct {
	self     int
	cmdlines sync.Map // pid -> string
}

// New returns a Matcher that never reports the process with id self.
func New(self int) *Matcher {
	return &Matcher{self: self}
}

// Compile builds the case-insensitive form of pattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
	}
	return re, nil
}

// FindMatching returns the processes in procs matching pattern, in snapshot
// order. Each candidate is evaluated in its own goroutine; a process whose
// strings cannot be read is treated as a non-match.
func (m *Matcher) FindMatching(ctx context.Context, pattern string, procs []proc.Process) ([]Hit, error) {
	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}

	results := make([]*Hit, len(procs))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range procs {
		if p.PID() == m.self {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			results[i] = m.evaluate(ctx, re, p)
			return nil
		})
	}
	_ = g.Wait()

	var hits []Hit
	for _, h := range results {
		if h != nil {
			hits = append(hits, *h)
		}
	}
	return hits, nil
}

func (m *Matcher) evaluate(ctx context.Context, re *regexp.Regexp, p proc.Process) (hit *Hit) {
	defer func() {
		if recover() != nil {
			hit = nil
		}
	}()

	title, err := p.WindowTitle(ctx)
	if err != nil {
		return nil
	}
	name, err := p.Name(ctx)
	if err != nil {
		return nil
	}
	cmdline := m.cmdline(ctx, p)

	for _, s := range []string{title, name, cmdline} {
		if re.MatchString(s) {
			return &Hit{PID: p.PID(), Name: name, Cmdline: cmdline, WindowTitle: title}
		}
	}
	return nil
}

// cmdline reads through the per-round cache. Concurrent misses for the same
// pid may both query the process; the first stored value wins.
func (m *Matcher) cmdline(ctx context.Context, p proc.Process) string {
	if v, ok := m.cmdlines.Load(p.PID()); ok {
		return v.(string)
	}
	cmd, err := p.Cmdline(ctx)
	if err != nil {
		cmd = ""
	}
	v, _ := m.cmdlines.LoadOrStore(p.PID(), cmd)
	return v.(string)
}
