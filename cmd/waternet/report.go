package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-waternet/pkg/constraints"
	"github.com/dd0wney/cluso-waternet/pkg/network"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))
)

func (a *app) report(args []string) int {
	fs := a.newFlagSet("report", "report <file>")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	n, code := a.mustLoad(fs)
	if n == nil {
		return code
	}
	result, err := n.Validate(a.cfg.ExtraConstraints()...)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitInvalid
	}

	fmt.Fprintln(a.stdout, renderReport(n, result))
	return exitOK
}

// renderReport formats the network summary, duplicate edges and constraint
// violations
func renderReport(n *network.Network, result *constraints.ValidationResult) string {
	var b strings.Builder

	title := "(untitled)"
	if md := n.Metadata(); md != nil && md.Title != "" {
		title = md.Title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if ts := n.Timestepper(); ts != nil {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%s to %s, timestep %v", ts.Start, ts.End, ts.Timestep)))
		b.WriteString("\n")
	}

	report := n.Report()
	names := make([]string, 0, len(report))
	width := 0
	for name := range report {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.Sort(names)
	rows := make([]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, fmt.Sprintf("%-*s  %6d", width, name, report[name]))
	}
	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if dups := n.DuplicateEdges(); len(dups) > 0 {
		b.WriteString(sectionStyle.Render("Duplicate edges"))
		b.WriteString("\n")
		for _, d := range dups {
			b.WriteString(warningStyle.Render(fmt.Sprintf("  %s x%d", d.Edge, d.Count)))
			b.WriteString("\n")
		}
	}

	b.WriteString(sectionStyle.Render("Constraints"))
	b.WriteString("\n")
	if result.Valid {
		b.WriteString(successStyle.Render("  no violations"))
		return b.String()
	}
	for _, v := range result.Violations {
		style := warningStyle
		if v.Severity == constraints.Error {
			style = errorStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("  %-7s %s", v.Severity, v.Message)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
