package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/autoapply/pkg/apply"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderSummary formats one line per attempt plus a total.
func renderSummary(outcomes []apply.Outcome, submitEnabled bool) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Summary"))
	sb.WriteString("\n")

	completed := 0
	for _, o := range outcomes {
		var status string
		switch {
		case o.OK() && o.Submitted:
			completed++
			status = okStyle.Render("submitted")
		case o.OK():
			completed++
			status = warnStyle.Render("ready (dry run)")
		default:
			status = failStyle.Render("aborted")
		}

		line := fmt.Sprintf("  %s %s %s", status, o.URL, dimStyle.Render(pages(o.Iterations)))
		if o.Err != nil {
			line += "\n    " + dimStyle.Render(o.Err.Error())
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	total := fmt.Sprintf("%d of %d applications completed", completed, len(outcomes))
	if !submitEnabled && completed > 0 {
		total += ", nothing was submitted (use --submit)"
	}
	sb.WriteString(labelStyle.Render(total))
	return sb.String()
}

func pages(n int) string {
	if n == 1 {
		return "(1 page)"
	}
	return fmt.Sprintf("(%d pages)", n)
}
