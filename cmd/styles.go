package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2)

	eligibleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	notEligibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	appliedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.StatusSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		models.StatusRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

var titleCaser = cases.Title(language.English)

func renderStatus(s models.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}

func renderBadge(b reconciler.Badge) string {
	switch b {
	case reconciler.BadgeEligible:
		return eligibleStyle.Render("✓ " + string(b))
	case reconciler.BadgeEligibleApplied:
		return appliedStyle.Render("✓ " + string(b))
	default:
		return notEligibleStyle.Render("✗ " + string(b))
	}
}

// field prints "Label: value", skipping empty values.
func field(w io.Writer, indent, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, labelStyle.Render(label+":"), valueStyle.Render(value))
}

func qualificationRange(job models.Job) string {
	return fmt.Sprintf("%s to %s", job.MinQualification, job.MaxQualification)
}
