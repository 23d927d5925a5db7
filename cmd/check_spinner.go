package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type scanDoneMsg struct {
	err error
}

type scanSpinnerModel struct {
	spinner spinner.Model
	label   string
	scan    tea.Cmd
	err     error
	done    bool
}

func newScanSpinnerModel(label string, scan tea.Cmd) scanSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return scanSpinnerModel{
		spinner: s,
		label:   label,
		scan:    scan,
	}
}

func (m scanSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scan)
}

func (m scanSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case scanDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m scanSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runScanSpinner(ctx context.Context, output io.Writer, scan func() error) error {
	scanCmd := func() tea.Msg {
		return scanDoneMsg{err: scan()}
	}

	p := tea.NewProgram(
		newScanSpinnerModel("Scanning sessions...", scanCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(scanSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
