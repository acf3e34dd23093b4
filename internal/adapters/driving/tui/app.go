package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/components/status"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/keymap"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/messages"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/styles"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/views/connect"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/views/menu"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/views/stores"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// storesView is the linked-stores management view.
	storesView *stores.View

	// connectView is the link-a-store wizard.
	connectView *connect.View

	// statusBar is rendered under every view.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		menuView:   menu.NewView(s),
		storesView: stores.NewView(s, ports.Stores, ports.OwnerUserID),
		connectView: connect.NewView(
			s, ports.Registry, ports.Stores, ports.Broker,
			ports.Exchanger, ports.OwnerUserID,
		),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("sellbridge - Store Linking"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.storesView.SetDimensions(msg.Width, msg.Height-2)
		a.connectView.SetDimensions(msg.Width, msg.Height-2)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewStores:
			// Esc from stores goes to menu, unless the rename field is open
			if msg.Type == tea.KeyEsc && !a.storesView.Renaming() {
				a.currentView = messages.ViewMenu
				a.statusBar.Clear()
				return a, nil
			}
			a.storesView, cmd = a.storesView.Update(msg)
			return a, cmd

		case messages.ViewConnect:
			a.connectView, cmd = a.connectView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				a.statusBar.Clear()
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewStores:
			a.statusBar.SetState(status.StateStores)
			return a, a.storesView.Init()
		case messages.ViewConnect:
			a.statusBar.SetState(status.StateReady)
			a.connectView.Reset()
			return a, a.connectView.Init()
		case messages.ViewHelp:
			a.statusBar.SetState(status.StateHelp)
		case messages.ViewMenu:
			a.statusBar.Clear()
		}
		return a, nil

	case messages.StoresLoaded:
		a.statusBar.SetStoreCount(len(msg.Connections))
		a.storesView, cmd = a.storesView.Update(msg)
		return a, cmd

	case messages.StoreRemoved, messages.StoreRenamed:
		a.storesView, cmd = a.storesView.Update(msg)
		return a, cmd

	case messages.StoreLinked, messages.HandshakeResolved:
		a.connectView, cmd = a.connectView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		if msg.Err != nil {
			a.statusBar.SetMessage(msg.Err.Error())
		}
		// Forward to current view
		switch a.currentView {
		case messages.ViewConnect:
			a.connectView, cmd = a.connectView.Update(msg)
		case messages.ViewMenu, messages.ViewStores, messages.ViewHelp:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewStores:
		a.storesView, cmd = a.storesView.Update(msg)
	case messages.ViewConnect:
		a.connectView, cmd = a.connectView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewStores:
		return a.storesView.View() + "\n" + a.statusBar.View()
	case messages.ViewConnect:
		return a.connectView.View() + "\n" + a.statusBar.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Stores:
  j/k, ↑/↓    Navigate stores
  a           Link a new store
  r           Rename selected store
  d           Remove selected store
  esc         Back to Menu

Link a store:
  enter       Next field / continue
  tab         Next field
  esc         Back / cancel authorisation

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.storesView.SetDimensions(width, height-2)
	a.connectView.SetDimensions(width, height-2)
	a.statusBar.SetWidth(width)
}
