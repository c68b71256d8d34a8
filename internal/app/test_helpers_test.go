package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"renice/internal/proc/proctest"
	"renice/internal/statuslog"
)

const selfPID = 4242

type harness struct {
	app    *App
	source *proctest.Source
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T, procs ...*proctest.Process) *harness {
	t.Helper()
	h := &harness{
		source: proctest.NewSource(selfPID, procs...),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	h.app = New(Options{
		Source: h.source,
		Log: statuslog.New(statuslog.Options{
			Out: h.out,
			Err: h.errOut,
			Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local) },
		}),
	})
	return h
}

func stubSleep(t *testing.T, fn func(context.Context, time.Duration) error) {
	t.Helper()
	resetSleep()
	sleepFor = fn
	t.Cleanup(resetSleep)
}

type countingProgress struct {
	starts, stops int
}

func (p *countingProgress) Start() { p.starts++ }
func (p *countingProgress) Stop()  { p.stops++ }
