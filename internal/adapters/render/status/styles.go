package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	session  lipgloss.Style
	detail   lipgloss.Style
	key      lipgloss.Style
	healthy  lipgloss.Style
	monitor  lipgloss.Style
	critical lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		session:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		key:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		healthy:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		monitor:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
