package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
	"github.com/BurakErdilli/biznet-analyzer/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listGrabbedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorBright)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// suggestionPickerModel - Interactive growth suggestion selection
// =============================================================================

// suggestionPickerModel is the bubbletea model for picking a growth
// suggestion. The selected node ID is stored in selected when the user
// confirms with enter.
type suggestionPickerModel struct {
	suggestions []network.Suggestion
	cursor      int
	selected    string
}

func newSuggestionPicker(suggestions []network.Suggestion) suggestionPickerModel {
	return suggestionPickerModel{suggestions: suggestions}
}

func (m suggestionPickerModel) Init() tea.Cmd {
	return nil
}

func (m suggestionPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.suggestions)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.suggestions[m.cursor].ID
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m suggestionPickerModel) View() string {
	var b strings.Builder

	b.WriteString(styleBold.Render("Select Node to Grow"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: add child  q: quit"))
	b.WriteString("\n\n")

	for i, s := range m.suggestions {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		var marker string
		if s.Criticality >= 0.8 {
			marker = styleError.Render("!")
		} else {
			marker = styleWarning.Render("*")
		}

		line := fmt.Sprintf("%s%s %-25s  %s", cursor, marker, s.ID,
			listDimStyle.Render(fmt.Sprintf("priority %.3f, %d of %d children",
				s.Priority, s.CurrentChildren, s.SuggestedChildren)))

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s critical   %s needs children\n",
		styleError.Render("!"), styleWarning.Render("*")))

	return b.String()
}

// =============================================================================
// treeModel - Interactive network tree browser
// =============================================================================

// dragStep is the distance one keypress moves a grabbed subtree.
const dragStep = 10.0

// treeRow is one visible line of the tree browser.
type treeRow struct {
	id    string
	depth int
	node  *hierarchy.Node
}

// treeModel is the bubbletea model for browsing and rearranging the
// network hierarchy. Navigation moves a cursor over the flattened tree;
// grabbing a node lets arrow keys drag its whole subtree.
type treeModel struct {
	model   *view.Model
	rows    []treeRow
	cursor  int
	offset  int
	height  int
	pointer hierarchy.Position
	status  string
}

func newTreeModel(m *view.Model) treeModel {
	t := treeModel{model: m, height: 15}
	t.reflow()
	return t
}

// reflow rebuilds the visible rows from the current tree, clamping the
// cursor when the tree shrank.
func (m *treeModel) reflow() {
	m.rows = m.rows[:0]
	t := m.model.Tree()
	if t == nil {
		return
	}
	var walk func(n *hierarchy.Node, depth int)
	walk = func(n *hierarchy.Node, depth int) {
		m.rows = append(m.rows, treeRow{id: n.ID, depth: depth, node: n})
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t.Root, 0)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.model.Grabbed() != "" {
			return m.updateGrabbed(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g":
			if len(m.rows) == 0 {
				return m, nil
			}
			row := m.rows[m.cursor]
			m.pointer = row.node.Pos
			if m.model.GrabStart(row.id, m.pointer) {
				m.status = fmt.Sprintf("grabbed %s", row.id)
			}
		case "f":
			if len(m.rows) == 0 {
				return m, nil
			}
			if m.model.Focus(m.rows[m.cursor].id) {
				m.cursor, m.offset = 0, 0
				m.reflow()
				m.status = fmt.Sprintf("focused %s", m.model.Focused())
			}
		case "F":
			m.model.ClearFocus()
			m.cursor, m.offset = 0, 0
			m.reflow()
			m.status = "focus cleared"
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 7
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// updateGrabbed handles keys while a subtree is held. Arrow keys move the
// pointer and the subtree follows; g or enter drops it in place.
func (m treeModel) updateGrabbed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "g", "enter", "esc":
		m.model.GrabEnd()
		m.status = "dropped"
	case "up", "k":
		m.pointer.Y -= dragStep
		m.model.DragTo(m.pointer)
	case "down", "j":
		m.pointer.Y += dragStep
		m.model.DragTo(m.pointer)
	case "left", "h":
		m.pointer.X -= dragStep
		m.model.DragTo(m.pointer)
	case "right", "l":
		m.pointer.X += dragStep
		m.model.DragTo(m.pointer)
	}
	return m, nil
}

func (m treeModel) View() string {
	var b strings.Builder

	b.WriteString(styleBold.Render("Network Tree"))
	if focus := m.model.Focused(); focus != "" {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  (focus: %s)", focus)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g grab/drop  ←↓↑→ drag  f focus  F unfocus  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty network)"))
		b.WriteString("\n")
		return b.String()
	}

	grabbed := m.model.Grabbed()

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		label := row.id
		if row.node.Virtual {
			label = "(network)"
		}

		indent := strings.Repeat("  ", row.depth)
		detail := ""
		if row.node.Payload != nil {
			detail = fmt.Sprintf("  value %.0f, crit %.2f", row.node.Payload.Value, row.node.Payload.Criticality)
			if row.node.Payload.IsChokepoint {
				detail += "  [chokepoint]"
			}
		}
		pos := fmt.Sprintf("  (%.0f, %.0f)", row.node.Pos.X, row.node.Pos.Y)

		line := cursor + indent + label + listDimStyle.Render(detail+pos)
		switch {
		case row.id == grabbed:
			b.WriteString(listGrabbedStyle.Render(line))
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case row.node.Virtual:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))
	if m.status != "" {
		footer += "  " + m.status
	}
	b.WriteString(listDimStyle.Render(footer))

	return b.String()
}
