package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/sentinel/internal/application"
	"github.com/openclaw/sentinel/internal/domain"
)

func renderView(report application.Report, s styles) string {
	lines := []string{
		s.title.Render("OpenClaw Sentinel"),
		s.header.Render(daemonLine(report)),
	}

	lines = append(lines, s.section.Render(renderSessions(report.Sessions, s)))
	lines = append(lines, s.section.Render(renderInterventions(report.Interventions, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func daemonLine(report application.Report) string {
	if !report.Running {
		return "daemon: stopped"
	}

	line := fmt.Sprintf("daemon: running (pid %d", report.PID)
	if report.Uptime > 0 {
		line += fmt.Sprintf(", up %s", report.Uptime.Round(time.Second))
	}
	if report.Interval > 0 {
		line += fmt.Sprintf(", polling every %s", report.Interval)
	}
	return line + ")"
}

func renderSessions(sessions []application.SessionHealth, s styles) string {
	if len(sessions) == 0 {
		return s.empty.Render("No active sessions.")
	}

	parts := make([]string, 0, len(sessions)+1)
	parts = append(parts, s.key.Render(fmt.Sprintf("sessions: %d", len(sessions))))

	for _, health := range sessions {
		parts = append(parts, renderSession(health, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderSession(health application.SessionHealth, s styles) string {
	badge := layerBadge(health.Verdict.Layer, s)
	head := lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", s.session.Render(string(health.Session.ID)))

	detail := fmt.Sprintf("  size: %s | markers: %d | nested: %d | messages: %d",
		formatBytes(health.Session.SizeBytes),
		health.Session.MarkerCount,
		health.Session.NestedCount,
		health.Session.MessageCount)
	if health.Verdict.RateKnown {
		detail += fmt.Sprintf(" | growth: %.0f B/s", health.Verdict.RateBytesPerSec)
	}

	body := []string{head, s.detail.Render(detail)}
	if health.Verdict.Layer != domain.NoTrigger {
		body = append(body, s.detail.Render("  "+health.Verdict.Reason))
	}

	return lipgloss.JoinVertical(lipgloss.Left, body...)
}

func layerBadge(layer domain.Layer, s styles) string {
	switch {
	case layer == domain.NoTrigger:
		return s.healthy.Render("[healthy]")
	case layer == domain.Layer4Monitor:
		return s.monitor.Render("[monitor]")
	default:
		return s.critical.Render("[" + layer.String() + "]")
	}
}

func renderInterventions(records []domain.InterventionRecord, s styles) string {
	if len(records) == 0 {
		return s.empty.Render("No interventions recorded.")
	}

	parts := make([]string, 0, len(records)+1)
	parts = append(parts, s.key.Render(fmt.Sprintf("recent interventions: %d", len(records))))

	for _, rec := range records {
		line := fmt.Sprintf("  %s  %s  %s (%s before)",
			rec.Timestamp.Format(time.RFC3339),
			rec.Session,
			rec.Action,
			formatBytes(rec.SizeBefore))
		parts = append(parts, s.detail.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
