package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/sympactl/internal/domain"
)

type theme struct {
	Title lipgloss.Style
	Faint lipgloss.Style
	OK    lipgloss.Style
	Skip  lipgloss.Style
	Fail  lipgloss.Style
	Error lipgloss.Style
}

var styles = theme{
	Title: lipgloss.NewStyle().Bold(true),
	Faint: lipgloss.NewStyle().Faint(true),
	OK:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Skip:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// outcomeBadge renders the short status column of a row.
func outcomeBadge(o domain.Outcome) string {
	switch o {
	case domain.OutcomeOK:
		return styles.OK.Render("OK")
	case domain.OutcomeSkipped:
		return styles.Skip.Render("SKIP")
	default:
		return styles.Fail.Render("FAIL")
	}
}
