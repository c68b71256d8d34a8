// Package proctest provides in-memory process fakes for tests.
package proctest

import (
	"context"
	"fmt"
	"sync"

	"renice/internal/priority"
	"renice/internal/proc"
)

// Process is a fake process whose priority lives in memory.
type Process struct {
	ID          int
	ProcessName string
	CommandLine string
	Title       string

	NameErr     error
	CmdlineErr  error
	PriorityErr error
	SetErr      error

	mu           sync.Mutex
	class        priority.Class
	setCalls     int
	cmdlineCalls int
}

// NewProcess returns a fake starting at the given class.
func NewProcess(id int, name, cmdline string, class priority.Class) *Process {
	return &Process{ID: id, ProcessName: name, CommandLine: cmdline, class: class}
}

func (p *Process) PID() int { return p.ID }

func (p *Process) Name(context.Context) (string, error) {
	if p.NameErr != nil {
		return "", p.NameErr
	}
	return p.ProcessName, nil
}

func (p *Process) Cmdline(context.Context) (string, error) {
	p.mu.Lock()
	p.cmdlineCalls++
	p.mu.Unlock()
	if p.CmdlineErr != nil {
		return "", p.CmdlineErr
	}
	return p.CommandLine, nil
}

func (p *Process) WindowTitle(context.Context) (string, error) {
	return p.Title, nil
}

func (p *Process) Priority(context.Context) (priority.Class, error) {
	if p.PriorityErr != nil {
		return 0, p.PriorityErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.class, nil
}

func (p *Process) SetPriority(_ context.Context, class priority.Class) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setCalls++
	if p.SetErr != nil {
		return p.SetErr
	}
	p.class = class
	return nil
}

// Class returns the current in-memory priority without counting as a call.
func (p *Process) Class() priority.Class {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.class
}

// Alter changes the priority as if something outside renice had done it.
func (p *Process) Alter(class priority.Class) {
	p.mu.Lock()
	p.class = class
	p.mu.Unlock()
}

// SetCalls counts SetPriority invocations.
func (p *Process) SetCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setCalls
}

// CmdlineCalls counts Cmdline invocations.
func (p *Process) CmdlineCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmdlineCalls
}

// Source is a fake process table.
type Source struct {
	SelfPID int
	ListErr error

	mu    sync.Mutex
	order []int
	procs map[int]*Process
	lists int
	opens int
}

// NewSource builds a table holding procs, in order.
func NewSource(self int, procs ...*Process) *Source {
	s := &Source{SelfPID: self, procs: make(map[int]*Process)}
	for _, p := range procs {
		s.Add(p)
	}
	return s
}

// Add inserts or replaces a process.
func (s *Source) Add(p *Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.procs[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.procs[p.ID] = p
}

// Remove simulates a process exiting.
func (s *Source) Remove(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.procs, pid)
	for i, id := range s.order {
		if id == pid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Source) Self() int { return s.SelfPID }

func (s *Source) List(context.Context) ([]proc.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]proc.Process, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.procs[id])
	}
	return out, nil
}

func (s *Source) Open(_ context.Context, pid int) (proc.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens++
	p, ok := s.procs[pid]
	if !ok {
		return nil, fmt.Errorf("%w: pid %d", proc.ErrNotFound, pid)
	}
	return p, nil
}

// Lists counts List invocations.
func (s *Source) Lists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

// Opens counts Open invocations.
func (s *Source) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}
