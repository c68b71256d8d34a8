package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"renice/internal/priority"
	"renice/internal/proc"
	"renice/internal/proc/proctest"
)

func pids(hits []Hit) []int {
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.PID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindMatchingByNameExcludesSelf(t *testing.T) {
	procs := []proc.Process{
		proctest.NewProcess(10, "notepad", `C:\Windows\notepad.exe`, priority.Normal),
		proctest.NewProcess(11, "explorer", `C:\Windows\explorer.exe`, priority.Normal),
		proctest.NewProcess(99, "notepad", `C:\Windows\notepad.exe`, priority.Normal),
	}
	m := New(99)
	hits, err := m.FindMatching(context.Background(), "notepad", procs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pids(hits); !equalInts(got, []int{10}) {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestFindMatchingIsCaseInsensitiveOverAllStrings(t *testing.T) {
	byTitle := proctest.NewProcess(1, "app", "/usr/bin/app", priority.Normal)
	byTitle.Title = "Project Report - Editor"
	byCmdline := proctest.NewProcess(2, "python3", "python3 /srv/Worker.py --queue", priority.Normal)
	neither := proctest.NewProcess(3, "bash", "-bash", priority.Normal)

	m := New(0)
	procs := []proc.Process{byTitle, byCmdline, neither}

	hits, err := m.FindMatching(context.Background(), "REPORT", procs)
	if err != nil {
		t.Fatal(err)
	}
	if got := pids(hits); !equalInts(got, []int{1}) {
		t.Fatalf("title match: got %v", got)
	}
	if hits[0].WindowTitle != "Project Report - Editor" {
		t.Fatalf("expected title on hit, got %+v", hits[0])
	}

	hits, err = m.FindMatching(context.Background(), `worker\.py`, procs)
	if err != nil {
		t.Fatal(err)
	}
	if got := pids(hits); !equalInts(got, []int{2}) {
		t.Fatalf("cmdline match: got %v", got)
	}
}

func TestFindMatchingTreatsUnreadableProcessAsNonMatch(t *testing.T) {
	broken := proctest.NewProcess(5, "notepad", "notepad", priority.Normal)
	broken.NameErr = errors.New("access denied")
	noCmdline := proctest.NewProcess(6, "notepad", "", priority.Normal)
	noCmdline.CmdlineErr = errors.New("access denied")

	hits, err := New(0).FindMatching(context.Background(), "notepad", []proc.Process{broken, noCmdline})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pids(hits); !equalInts(got, []int{6}) {
		t.Fatalf("expected only pid 6 (matched by name), got %v", got)
	}
	if hits[0].Cmdline != "" {
		t.Fatalf("expected empty cmdline for failed lookup, got %q", hits[0].Cmdline)
	}
}

func TestFindMatchingRejectsInvalidPattern(t *testing.T) {
	if _, err := New(0).FindMatching(context.Background(), "([", nil); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestFindMatchingPreservesSnapshotOrder(t *testing.T) {
	var procs []proc.Process
	var want []int
	for i := 1; i <= 50; i++ {
		procs = append(procs, proctest.NewProcess(i, "worker", "worker --id", priority.Normal))
		want = append(want, i)
	}
	hits, err := New(0).FindMatching(context.Background(), "worker", procs)
	if err != nil {
		t.Fatal(err)
	}
	if got := pids(hits); !equalInts(got, want) {
		t.Fatalf("expected snapshot order, got %v", got)
	}
}

func TestCmdlineCachedAcrossPatterns(t *testing.T) {
	p := proctest.NewProcess(7, "svc", "svc --serve", priority.Normal)
	m := New(0)
	for _, pattern := range []string{"alpha", "beta", "serve"} {
		if _, err := m.FindMatching(context.Background(), pattern, []proc.Process{p}); err != nil {
			t.Fatal(err)
		}
	}
	if calls := p.CmdlineCalls(); calls != 1 {
		t.Fatalf("expected one cmdline lookup, got %d", calls)
	}
}

func TestCmdlineCacheConcurrentAccess(t *testing.T) {
	p := proctest.NewProcess(8, "svc", "svc --serve", priority.Normal)
	m := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := m.cmdline(context.Background(), p); got != "svc --serve" {
				t.Errorf("unexpected cmdline %q", got)
			}
		}()
	}
	wg.Wait()
}
