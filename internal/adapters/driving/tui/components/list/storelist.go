// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/styles"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// StoreList displays linked store connections in a navigable list.
type StoreList struct {
	connections []domain.StoreConnection
	selected    int
	styles      *styles.Styles
	width       int
	height      int
}

// NewStoreList creates a new store list component.
func NewStoreList(s *styles.Styles) *StoreList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &StoreList{
		connections: nil,
		selected:    0,
		styles:      s,
		width:       80,
		height:      10,
	}
}

// Init initialises the store list.
func (l *StoreList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *StoreList) Update(msg tea.Msg) (*StoreList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			l.MoveUp()
		case "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the store list.
func (l *StoreList) View() string {
	if len(l.connections) == 0 {
		return l.styles.Muted.Render("No stores linked yet")
	}

	lines := make([]string, 0, len(l.connections)*2+2)

	// Header
	header := l.styles.Subtitle.Render(fmt.Sprintf("Linked stores (%d)", len(l.connections)))
	lines = append(lines, header, "")

	// Each connection takes two lines (name + detail), plus the header
	visibleCount := (l.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.connections) {
		end = len(l.connections)
	}

	for i := start; i < end; i++ {
		line := l.renderConnection(i, &l.connections[i])
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderConnection formats a single store connection.
func (l *StoreList) renderConnection(index int, conn *domain.StoreConnection) string {
	// Indicator for selected item
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := conn.Label()
	maxNameLen := l.width - 20
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	platform := string(conn.Platform)

	var nameLine string
	if index == l.selected {
		nameLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, platform))
	} else {
		nameLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			l.styles.Muted.Render(platform)
	}

	detail := conn.Domain
	if detail == "" {
		detail = conn.ID
	}
	if !conn.Credentials.IsAuthenticated() {
		detail += "  (not authenticated)"
	}

	maxDetailLen := l.width - 6
	if maxDetailLen < 20 {
		maxDetailLen = 20
	}
	if len(detail) > maxDetailLen {
		detail = detail[:maxDetailLen-3] + "..."
	}

	detailLine := l.styles.Muted.Render("    " + detail)

	return nameLine + "\n" + detailLine
}

// SetConnections updates the list contents.
func (l *StoreList) SetConnections(connections []domain.StoreConnection) {
	l.connections = connections
	if l.selected >= len(connections) {
		l.selected = 0
	}
}

// Connections returns the current connections.
func (l *StoreList) Connections() []domain.StoreConnection {
	return l.connections
}

// Selected returns the index of the selected connection.
func (l *StoreList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *StoreList) SetSelected(index int) {
	if index >= 0 && index < len(l.connections) {
		l.selected = index
	}
}

// SelectedConnection returns the currently selected connection, or nil if none.
func (l *StoreList) SelectedConnection() *domain.StoreConnection {
	if len(l.connections) == 0 || l.selected < 0 || l.selected >= len(l.connections) {
		return nil
	}
	return &l.connections[l.selected]
}

// MoveUp moves selection up.
func (l *StoreList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *StoreList) MoveDown() {
	if l.selected < len(l.connections)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *StoreList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *StoreList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *StoreList) Height() int {
	return l.height
}

// Count returns the number of connections.
func (l *StoreList) Count() int {
	return len(l.connections)
}

// IsEmpty returns whether the list is empty.
func (l *StoreList) IsEmpty() bool {
	return len(l.connections) == 0
}
