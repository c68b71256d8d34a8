package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"renice/internal/priority"
	"renice/internal/proc"
	"renice/internal/proc/proctest"
)

func TestDistributeIsolatesPerIDFailure(t *testing.T) {
	survivor := proctest.NewProcess(222, "worker", "worker", priority.Normal)
	h := newHarness(t, survivor)

	res := h.app.Distribute(context.Background(), DistributeParams{
		IDs:   []int{111, 222},
		Class: priority.Idle,
	})
	if !res.Failed {
		t.Fatal("expected round to report failure")
	}
	if survivor.Class() != priority.Idle || survivor.SetCalls() != 1 {
		t.Fatalf("expected 222 reniced despite 111 failing, class=%s calls=%d", survivor.Class(), survivor.SetCalls())
	}
	if len(res.Events) != 2 || res.Events[0].Kind != KindFailure || res.Events[1].Kind != KindReniced {
		t.Fatalf("unexpected events %+v", res.Events)
	}
	if !errors.Is(res.Err, ErrProcessUnavailable) || !errors.Is(res.Err, proc.ErrNotFound) {
		t.Fatalf("expected wrapped not-found error, got %v", res.Err)
	}
	if !strings.Contains(h.errOut.String(), "Can't set priority on 111") {
		t.Fatalf("expected stderr report, got %q", h.errOut.String())
	}
}

func TestDistributeOnceReportsFailure(t *testing.T) {
	p := proctest.NewProcess(5, "x", "x", priority.Normal)
	p.SetErr = errors.New("operation not permitted")
	h := newHarness(t, p)
	if failed := h.app.DistributeOnce(context.Background(), []int{5}, priority.RealTime, false, false); !failed {
		t.Fatal("expected failure when mutation is denied")
	}
	if p.Class() != priority.Normal {
		t.Fatalf("class changed despite error: %s", p.Class())
	}
}

func TestDistributeIsIdempotent(t *testing.T) {
	p := proctest.NewProcess(5, "x", "x", priority.BelowNormal)
	h := newHarness(t, p)
	ctx := context.Background()

	if failed := h.app.DistributeOnce(ctx, []int{5}, priority.Idle, false, false); failed {
		t.Fatal("unexpected failure")
	}
	if p.SetCalls() != 1 {
		t.Fatalf("expected one mutation, got %d", p.SetCalls())
	}
	res := h.app.Distribute(ctx, DistributeParams{IDs: []int{5}, Class: priority.Idle})
	if res.Failed || res.Count(KindAlready) != 1 {
		t.Fatalf("unexpected second round %+v", res)
	}
	if p.SetCalls() != 1 {
		t.Fatalf("expected no mutation on second round, got %d calls", p.SetCalls())
	}
}

func TestDistributeVerboseAlreadyAndTransition(t *testing.T) {
	atTarget := proctest.NewProcess(1, "a", "a", priority.High)
	other := proctest.NewProcess(2, "b", "b", priority.Normal)
	h := newHarness(t, atTarget, other)

	h.app.Distribute(context.Background(), DistributeParams{IDs: []int{1, 2}, Class: priority.High, Verbose: true})
	out := h.out.String()
	if !strings.Contains(out, "1 already has priority High") {
		t.Fatalf("missing already line: %q", out)
	}
	if !strings.Contains(out, "2: Normal -> High") {
		t.Fatalf("missing transition line: %q", out)
	}
}

func TestDistributeQuietWithoutVerbose(t *testing.T) {
	h := newHarness(t, proctest.NewProcess(1, "a", "a", priority.High), proctest.NewProcess(2, "b", "b", priority.Normal))
	h.app.Distribute(context.Background(), DistributeParams{IDs: []int{1, 2}, Class: priority.High})
	if h.out.Len() != 0 {
		t.Fatalf("expected no output, got %q", h.out.String())
	}
}

func TestDummyNeverMutatesAndReportsChanges(t *testing.T) {
	p := proctest.NewProcess(9, "game", "game.exe", priority.Normal)
	h := newHarness(t, p)
	ctx := context.Background()
	params := DistributeParams{IDs: []int{9}, Class: priority.Idle, Dummy: true}

	first := h.app.Distribute(ctx, params)
	if first.Failed || first.Events[0].Kind != KindObserved {
		t.Fatalf("first round: %+v", first)
	}
	second := h.app.Distribute(ctx, params)
	if second.Events[0].Kind != KindUnchanged {
		t.Fatalf("second round: expected unchanged, got %+v", second.Events[0])
	}
	if p.SetCalls() != 0 || p.Class() != priority.Normal {
		t.Fatalf("dummy mode mutated: calls=%d class=%s", p.SetCalls(), p.Class())
	}
	if !strings.Contains(h.out.String(), "9 priority unchanged (Normal)") {
		t.Fatalf("missing unchanged status: %q", h.out.String())
	}

	p.Alter(priority.High)
	third := h.app.Distribute(ctx, params)
	ev := third.Events[0]
	if ev.Kind != KindChanged || ev.From != priority.Normal || ev.To != priority.High {
		t.Fatalf("third round: expected Normal->High change, got %+v", ev)
	}
	if !strings.Contains(h.out.String(), "9 priority changed from Normal to High\n") {
		t.Fatalf("missing persistent change notice: %q", h.out.String())
	}
	if p.SetCalls() != 0 {
		t.Fatalf("dummy mode mutated on round three")
	}
}

func TestDummyCacheIsPerApp(t *testing.T) {
	p := proctest.NewProcess(9, "game", "game.exe", priority.Normal)
	params := DistributeParams{IDs: []int{9}, Class: priority.Idle, Dummy: true}

	first := newHarness(t, p)
	first.app.Distribute(context.Background(), params)

	second := newHarness(t, p)
	res := second.app.Distribute(context.Background(), params)
	if res.Events[0].Kind != KindObserved {
		t.Fatalf("expected a fresh app to see pid 9 for the first time, got %s", res.Events[0].Kind)
	}
}

func TestDistributePriorityReadFailure(t *testing.T) {
	p := proctest.NewProcess(3, "x", "x", priority.Normal)
	p.PriorityErr = errors.New("access denied")
	h := newHarness(t, p)
	res := h.app.Distribute(context.Background(), DistributeParams{IDs: []int{3}, Class: priority.Idle})
	if !res.Failed || !errors.Is(res.Err, ErrProcessUnavailable) {
		t.Fatalf("expected unavailable failure, got %+v", res)
	}
}
