package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	runewidth "github.com/mattn/go-runewidth"
)

var borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// visibleWidth ignores colour codes and counts wide runes (emoji in event
// names) as two columns.
func visibleWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func padRight(s string, width int) string {
	if w := visibleWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// renderTable lays out a bordered table, one divider between groups. The
// column count is the header's, or the widest row's when there is none.
func renderTable(headers []string, groups [][][]string, colour bool) []string {
	cols := len(headers)
	if cols == 0 {
		for _, g := range groups {
			for _, r := range g {
				cols = max(cols, len(r))
			}
		}
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], visibleWidth(row[i]))
		}
	}
	measure(headers)
	for _, g := range groups {
		for _, r := range g {
			measure(r)
		}
	}

	border := func(s string) string {
		if !colour {
			return s
		}
		return borderStyle.Render(s)
	}
	rule := func(left, mid, right string) string {
		segs := make([]string, cols)
		for i, w := range widths {
			segs[i] = strings.Repeat("─", w+2)
		}
		return border(left + strings.Join(segs, mid) + right)
	}
	row := func(cells []string) string {
		parts := make([]string, cols)
		for i := range parts {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = " " + padRight(cell, widths[i]) + " "
		}
		bar := border("│")
		return bar + strings.Join(parts, bar) + bar
	}

	lines := []string{rule("┌", "┬", "┐")}
	if len(headers) > 0 {
		lines = append(lines, row(headers), rule("├", "┼", "┤"))
	}
	for gi, g := range groups {
		if gi > 0 {
			lines = append(lines, rule("├", "┼", "┤"))
		}
		for _, r := range g {
			lines = append(lines, row(r))
		}
	}
	return append(lines, rule("└", "┴", "┘"))
}
