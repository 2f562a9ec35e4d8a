package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	titleStyle = lipgloss.NewStyle().Bold(true)
)

// renderTable writes a padded column layout with a styled header row.
func renderTable(out io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(pad(h, widths[i]))
	}
	fmt.Fprintln(out, strings.Join(styled, "  "))

	for _, row := range rows {
		cells := make([]string, len(widths))
		for i := range widths {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cells[i] = pad(val, widths[i])
		}
		fmt.Fprintln(out, strings.Join(cells, "  "))
	}
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// statusCell colors a task status for table output.
func statusCell(status string) string {
	switch status {
	case "done":
		return okStyle.Render(status)
	case "in_progress":
		return warnStyle.Render(status)
	default:
		return status
	}
}

// progressBar renders a fixed-width completion bar.
func progressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %5.1f%%", okStyle.Render(bar), percent)
}

// writeJSON emits machine-readable output for --json mode.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
