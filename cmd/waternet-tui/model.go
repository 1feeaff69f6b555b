package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gql "github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-waternet/pkg/constraints"
	"github.com/dd0wney/cluso-waternet/pkg/graphql"
	"github.com/dd0wney/cluso-waternet/pkg/network"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0066CC")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	summaryView view = iota
	nodesView
	edgesView
	parametersView
	recordersView
	queryView
	numViews
)

var tabNames = [numViews]string{"Summary", "Nodes", "Edges", "Parameters", "Recorders", "Query"}

// queryDepth bounds interactive GraphQL queries
const queryDepth = graphql.DefaultMaxDepth

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Jump     key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Jump: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6"),
		key.WithHelp("1-6", "jump to view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run query"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Jump, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Jump},
		{k.Up, k.Down, k.Enter},
		{k.Quit},
	}
}

type model struct {
	network     *network.Network
	schema      gql.Schema
	validation  *constraints.ValidationResult
	currentView view
	tables      map[view]*table.Model
	queryInput  textinput.Model
	queryOutput string
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
}

func newTable(columns []table.Column, rows []table.Row) *table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#0066CC")).
		Bold(false)
	t.SetStyles(s)
	return &t
}

func newModel(n *network.Network) (model, error) {
	schema, err := graphql.GenerateSchema(n)
	if err != nil {
		return model{}, err
	}
	result, err := n.Validate()
	if err != nil {
		return model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = `{ node(name: "...") { type downstream { name } } }`
	ti.CharLimit = 500
	ti.Width = 80

	componentColumns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Type", Width: 24},
		{Title: "Definition", Width: maxCell},
	}

	return model{
		network:    n,
		schema:     schema,
		validation: result,
		tables: map[view]*table.Model{
			nodesView: newTable([]table.Column{
				{Title: "Name", Width: 24},
				{Title: "Type", Width: 16},
				{Title: "Attributes", Width: maxCell},
			}, nodeRows(n)),
			edgesView: newTable([]table.Column{
				{Title: "From", Width: 24},
				{Title: "To", Width: 24},
				{Title: "Slots", Width: 20},
			}, edgeRows(n)),
			parametersView: newTable(componentColumns, componentRows(n.Parameters())),
			recordersView:  newTable(componentColumns, componentRows(n.Recorders())),
		},
		queryInput: ti,
		help:       help.New(),
		keys:       keys,
	}, nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for _, t := range m.tables {
			t.SetHeight(max(msg.Height-12, 5))
		}

	case tea.KeyMsg:
		typing := m.currentView == queryView
		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit

		case key.Matches(msg, m.keys.Quit) && !typing:
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % numViews)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.currentView + numViews - 1) % numViews)
			return m, nil

		case key.Matches(msg, m.keys.Jump) && !typing:
			m.setView(view(msg.Runes[0] - '1'))
			return m, nil

		case key.Matches(msg, m.keys.Enter) && typing:
			m.executeQuery()
			return m, nil
		}
	}

	// Update focused component
	if m.currentView == queryView {
		var cmd tea.Cmd
		m.queryInput, cmd = m.queryInput.Update(msg)
		cmds = append(cmds, cmd)
	} else if t, ok := m.tables[m.currentView]; ok {
		updated, cmd := t.Update(msg)
		*t = updated
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setView(v view) {
	m.currentView = v
	if v == queryView {
		m.queryInput.Focus()
	} else {
		m.queryInput.Blur()
	}
}

func (m *model) executeQuery() {
	query := strings.TrimSpace(m.queryInput.Value())
	if query == "" {
		m.message = "Query cannot be empty"
		m.messageErr = true
		return
	}

	result := graphql.ExecuteWithDepthLimit(context.Background(), m.schema, query, queryDepth, nil)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		m.message = fmt.Sprintf("Failed to encode result: %v", err)
		m.messageErr = true
		return
	}
	m.queryOutput = string(data)

	if result.HasErrors() {
		m.message = result.Errors[0].Message
		m.messageErr = true
		return
	}
	m.message = "Query executed"
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	title := "Water network"
	if md := m.network.Metadata(); md != nil && md.Title != "" {
		title = md.Title
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case summaryView:
		s.WriteString(m.renderSummary())
	case queryView:
		s.WriteString(m.renderQuery())
	default:
		s.WriteString(contentStyle.Render(headerStyle.Render(tabNames[m.currentView]) + "\n\n" + m.tables[m.currentView].View()))
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	rendered := make([]string, 0, numViews)
	for i, tab := range tabNames {
		if view(i) == m.currentView {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderSummary() string {
	report := m.network.Report()

	var counts strings.Builder
	counts.WriteString("Collections\n")
	for _, name := range []string{"nodes", "edges", "parameters", "recorders", "tables", "scenarios"} {
		fmt.Fprintf(&counts, "\n%-11s %d", name, report[name])
	}
	if dups := m.network.DuplicateEdges(); len(dups) > 0 {
		fmt.Fprintf(&counts, "\n\nDuplicate edges: %d", len(dups))
	}

	var checks strings.Builder
	checks.WriteString("Constraints\n")
	if m.validation.Valid {
		checks.WriteString("\n" + successStyle.Render("no violations"))
	}
	for i, v := range m.validation.Violations {
		if i == 10 {
			fmt.Fprintf(&checks, "\n... %d more", len(m.validation.Violations)-i)
			break
		}
		style := warningStyle
		if v.Severity == constraints.Error {
			style = errorStyle
		}
		checks.WriteString("\n" + style.Render(v.Message))
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(counts.String()),
		statsBoxStyle.Render(checks.String()),
	))
}

func (m model) renderQuery() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("GraphQL Query"))
	s.WriteString("\n\n")
	s.WriteString(m.queryInput.View())
	if m.queryOutput != "" {
		s.WriteString("\n\n")
		lines := strings.Split(m.queryOutput, "\n")
		if limit := max(m.height-14, 5); len(lines) > limit {
			lines = append(lines[:limit], "...")
		}
		s.WriteString(strings.Join(lines, "\n"))
	}
	return contentStyle.Render(s.String())
}
