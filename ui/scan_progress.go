package ui

import (
	"context"
	"fmt"
	"strings"

	"atlas-repacker/discovery"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	progressMsg discovery.Progress
	doneMsg     struct {
		entry discovery.Entry
		err   error
	}

	// ScanProgress shows a running atlas search. esc, q and ctrl+c cancel it;
	// the model quits once the search returns.
	ScanProgress struct {
		name     string
		locate   func(ctx context.Context) (discovery.Entry, error)
		ctx      context.Context
		cancel   context.CancelFunc
		progress discovery.Progress
		done     bool
		entry    discovery.Entry
		err      error
	}
)

const barWidth = 30

func NewScanProgress(ctx context.Context, name string, locate func(ctx context.Context) (discovery.Entry, error)) *ScanProgress {
	ctx, cancel := context.WithCancel(ctx)
	return &ScanProgress{name: name, locate: locate, ctx: ctx, cancel: cancel}
}

// Result returns the located entry or the error the search ended with.
func (s *ScanProgress) Result() (discovery.Entry, error) {
	return s.entry, s.err
}

func (s *ScanProgress) Init() tea.Cmd {
	return func() tea.Msg {
		entry, err := s.locate(s.ctx)
		return doneMsg{entry: entry, err: err}
	}
}

func (s *ScanProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		s.progress = discovery.Progress(msg)
	case doneMsg:
		s.done = true
		s.entry, s.err = msg.entry, msg.err
		s.cancel()
		return s, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			s.cancel()
		}
	}
	return s, nil
}

func bar(searched int, total int) string {
	filled := 0
	if total > 0 {
		filled = barWidth * searched / total
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}

func (s *ScanProgress) View() string {
	p := s.progress
	output := fmt.Sprintf("Searching for atlas %s\n\n", s.name)
	output += fmt.Sprintf("%s %d/%d files", bar(p.Searched, p.Total), p.Searched, p.Total)
	if p.Failed > 0 {
		output += fmt.Sprintf(", %d unreadable", p.Failed)
	}
	output += "\n"
	if p.File != "" {
		output += "Last file: " + p.File + "\n"
	}
	switch {
	case s.done && s.err == nil:
		output += fmt.Sprintf("\nFound %s atlas %s.\n", s.entry.Layout, s.entry.Name)
	case s.done:
		output += "\nSearch ended: " + s.err.Error() + "\n"
	case s.ctx.Err() != nil:
		output += "\nCancelling..\n"
	default:
		output += "\nesc/q: cancel\n"
	}
	return output
}
