package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"renice/internal/app"
)

const loadTimeout = 10 * time.Second

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Snapshot(context.Context, app.ResolveParams) ([]app.Target, error)
	Apply(context.Context, app.RunOptions) (app.DistributeResult, error)
}

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller
	opts       app.RunOptions

	table   table.Model
	targets []app.Target

	statusMsg string
	err       error
	loading   bool
	applying  bool

	width  int
	height int

	lastUpdated time.Time
}

var columns = []table.Column{
	{Title: "PID", Width: 8},
	{Title: "NAME", Width: 20},
	{Title: "PRIORITY", Width: 12},
	{Title: "COMMAND", Width: 60},
}

// New constructs a TUI model for the processes selected by opts.
func New(ctrl Controller, opts app.RunOptions) *Model {
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	return &Model{
		controller: ctrl,
		opts:       opts,
		table:      tbl,
		statusMsg:  "Loading processes…",
		loading:    true,
	}
}

// Run spins up the Bubble Tea program with sensible defaults.
func Run(ctrl Controller, opts app.RunOptions) error {
	m := New(ctrl, opts)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(loadTargetsCmd(m.controller, m.opts), tickCmd(m.opts.Interval))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 6 {
			m.table.SetHeight(msg.Height - 6)
		}
		m.table.SetWidth(msg.Width)

	case targetsLoadedMsg:
		m.loading = false
		m.err = nil
		m.targets = msg.targets
		m.table.SetRows(rowsFor(msg.targets))
		m.lastUpdated = time.Now()
		m.statusMsg = fmt.Sprintf("%d process(es) targeted", len(msg.targets))

	case appliedMsg:
		m.applying = false
		m.statusMsg = describeResult(msg.result, m.opts.Dummy)
		return m, loadTargetsCmd(m.controller, m.opts)

	case tickMsg:
		return m, tea.Batch(loadTargetsCmd(m.controller, m.opts), tickCmd(m.opts.Interval))

	case errMsg:
		m.loading = false
		m.applying = false
		m.err = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, loadTargetsCmd(m.controller, m.opts)
		case "a":
			if !m.applying {
				m.applying = true
				m.statusMsg = "Applying…"
				return m, applyCmd(m.controller, m.opts)
			}
		case "d":
			m.opts.Dummy = !m.opts.Dummy
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	mode := "apply"
	if m.opts.Dummy {
		mode = "dummy"
	}
	header := fmt.Sprintf("Target niceness %d (%s) • mode %s", m.opts.Niceness, m.targetClass(), mode)
	b.WriteString(headerStyle.Render(header))
	b.WriteByte('\n')
	b.WriteString(m.statusMsg)
	b.WriteByte('\n')

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	if len(m.targets) == 0 && !m.loading && m.err == nil {
		b.WriteString("No matching process ids found.\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteByte('\n')
	}

	help := "Commands: q quit • r reload • a apply • d toggle dummy"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.Kitchen))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) targetClass() string {
	class, err := m.opts.Validate()
	if err != nil {
		return "invalid"
	}
	return class.String()
}

func rowsFor(targets []app.Target) []table.Row {
	rows := make([]table.Row, 0, len(targets))
	for _, t := range targets {
		class := t.Class.String()
		if t.Err != nil {
			class = "unavailable"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(t.PID),
			valueOrDash(t.Name),
			class,
			valueOrDash(t.Cmdline),
		})
	}
	return rows
}

func describeResult(res app.DistributeResult, dummy bool) string {
	if dummy {
		return fmt.Sprintf("Observed %d process(es), %d changed since last look, %d failed",
			len(res.Events), res.Count(app.KindChanged), res.Count(app.KindFailure))
	}
	return fmt.Sprintf("Reniced %d, already set %d, failed %d",
		res.Count(app.KindReniced), res.Count(app.KindAlready), res.Count(app.KindFailure))
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type targetsLoadedMsg struct {
	targets []app.Target
}

type appliedMsg struct {
	result app.DistributeResult
}

type tickMsg time.Time

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func loadTargetsCmd(ctrl Controller, opts app.RunOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		targets, err := ctrl.Snapshot(ctx, app.ResolveParams{PIDs: opts.PIDs, Matches: opts.Matches})
		if err != nil {
			return errMsg{err}
		}
		return targetsLoadedMsg{targets: targets}
	}
}

func applyCmd(ctrl Controller, opts app.RunOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		res, err := ctrl.Apply(ctx, opts)
		if err != nil {
			return errMsg{err}
		}
		return appliedMsg{result: res}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
