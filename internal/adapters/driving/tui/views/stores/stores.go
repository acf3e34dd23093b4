// Package stores provides the linked-stores management view for the TUI.
package stores

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/components/input"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/components/list"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/messages"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/styles"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

// View is the linked-stores management view.
type View struct {
	styles       *styles.Styles
	storeService driving.StoreService
	ownerUserID  string

	storeList   *list.StoreList
	renameField *input.Field
	renaming    bool

	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new stores view.
func NewView(s *styles.Styles, storeService driving.StoreService, ownerUserID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:       s,
		storeService: storeService,
		ownerUserID:  ownerUserID,
		storeList:    list.NewStoreList(s),
		renameField:  input.NewField(s, "New name", "display name", false),
	}
}

// Init initialises the view and loads stores.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadStores()
}

// loadStores returns a command that loads store connections.
func (v *View) loadStores() tea.Cmd {
	return func() tea.Msg {
		if v.storeService == nil {
			return messages.StoresLoaded{Err: fmt.Errorf("store service not available")}
		}

		connections, err := v.storeService.List(context.Background(), v.ownerUserID)
		return messages.StoresLoaded{Connections: connections, Err: err}
	}
}

// Update handles messages for the stores view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.storeList.SetDimensions(msg.Width, msg.Height-6)
		v.renameField.SetWidth(msg.Width)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StoresLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.storeList.SetConnections(msg.Connections)
			v.err = nil
		}
		return v, nil

	case messages.StoreRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadStores()

	case messages.StoreRenamed:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadStores()
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.renaming {
		return v.handleRenameKey(msg)
	}

	switch msg.String() {
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		v.storeList, cmd = v.storeList.Update(msg)
		return v, cmd

	case "a":
		// Start the link wizard
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewConnect}
		}

	case "d", "delete", "backspace":
		if conn := v.storeList.SelectedConnection(); conn != nil {
			return v, v.removeStore(conn.ID)
		}

	case "r":
		if conn := v.storeList.SelectedConnection(); conn != nil {
			v.renaming = true
			v.renameField.SetValue(conn.DisplayName)
			return v, v.renameField.Focus()
		}
	}

	return v, nil
}

// handleRenameKey handles keys while the rename field is active.
func (v *View) handleRenameKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.renaming = false
		v.renameField.Blur()
		v.renameField.Reset()
		return v, nil

	case "enter":
		conn := v.storeList.SelectedConnection()
		name := strings.TrimSpace(v.renameField.Value())
		v.renaming = false
		v.renameField.Blur()
		v.renameField.Reset()
		if conn == nil || name == "" {
			return v, nil
		}
		return v, v.renameStore(conn.ID, name)
	}

	var cmd tea.Cmd
	v.renameField, cmd = v.renameField.Update(msg)
	return v, cmd
}

// removeStore returns a command that removes a store connection.
func (v *View) removeStore(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.storeService.Remove(context.Background(), id)
		return messages.StoreRemoved{ID: id, Err: err}
	}
}

// renameStore returns a command that renames a store connection.
func (v *View) renameStore(id, name string) tea.Cmd {
	return func() tea.Msg {
		if err := v.storeService.Rename(context.Background(), id, name); err != nil {
			return messages.StoreRenamed{Err: err}
		}
		conn, err := v.storeService.Get(context.Background(), id)
		if err != nil {
			return messages.StoreRenamed{Err: err}
		}
		return messages.StoreRenamed{Connection: *conn}
	}
}

// View renders the stores view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Stores"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading stores..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	default:
		b.WriteString(v.storeList.View())
	}

	b.WriteString("\n\n")

	if v.renaming {
		b.WriteString(v.renameField.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[a] link store  [r] rename  [d] remove  [esc] back"))
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.storeList.SetDimensions(width, height-6)
	v.renameField.SetWidth(width)
}

// Selected returns the index of the selected connection.
func (v *View) Selected() int {
	return v.storeList.Selected()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Renaming reports whether the inline rename field is active.
func (v *View) Renaming() bool {
	return v.renaming
}
