// Package connect provides the link-a-store wizard view for the TUI.
//
// The wizard walks Select -> Credentials -> Success: the user picks a
// marketplace, fills in its config keys, and either completes a browser
// authorisation handshake (OAuth marketplaces) or has the entered keys
// stored directly (API-key marketplaces). A failed handshake drops back
// to the credentials step with a dismissable notice; retrying starts a
// brand new handshake.
package connect

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/components/input"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/messages"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/styles"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

// WizardStep tracks the current step in the wizard.
type WizardStep int

const (
	StepSelectMarketplace WizardStep = iota
	StepEnterConfig
	StepAuthorising
	StepComplete
)

// Key constants.
const (
	keyEnter = "enter"
	keyDown  = "down"
)

// View is the link-a-store wizard view.
type View struct {
	styles      *styles.Styles
	registry    driving.MarketplaceRegistry
	stores      driving.StoreService
	broker      driving.HandshakeBroker
	exchanger   driven.TokenExchanger
	ownerUserID string

	// Wizard state
	step         WizardStep
	marketplaces []domain.Marketplace
	selected     int

	// Selected marketplace
	marketplace *domain.Marketplace

	// Config inputs, one field per catalogue config key
	configFields []*input.Field
	configKeys   []domain.ConfigKey
	focusIndex   int

	// In-flight handshake
	session driving.Handshake

	// notice is a dismissable failure message shown on the config step.
	notice string

	// Result
	connection *domain.StoreConnection
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new link-a-store wizard view.
func NewView(
	s *styles.Styles,
	registry driving.MarketplaceRegistry,
	stores driving.StoreService,
	broker driving.HandshakeBroker,
	exchanger driven.TokenExchanger,
	ownerUserID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:      s,
		registry:    registry,
		stores:      stores,
		broker:      broker,
		exchanger:   exchanger,
		ownerUserID: ownerUserID,
		step:        StepSelectMarketplace,
	}
}

// Init initialises the view and loads the marketplace catalogue.
func (v *View) Init() tea.Cmd {
	return v.loadMarketplaces()
}

// loadMarketplaces returns a command that loads the catalogue.
func (v *View) loadMarketplaces() tea.Cmd {
	return func() tea.Msg {
		if v.registry == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("marketplace registry not available")}
		}
		return marketplacesLoaded{marketplaces: v.registry.List()}
	}
}

// marketplacesLoaded is a message indicating the catalogue has been loaded.
type marketplacesLoaded struct {
	marketplaces []domain.Marketplace
}

// handshakeStarted carries a successfully started handshake.
type handshakeStarted struct {
	session driving.Handshake
}

// handshakeFailed carries a precondition failure from the broker.
type handshakeFailed struct {
	err error
}

// Update handles messages for the wizard.
//
//nolint:gocritic // evalOrder: bubbletea pattern returns cmd from method call
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		for _, f := range v.configFields {
			f.SetWidth(msg.Width)
		}
		return v, nil

	case marketplacesLoaded:
		v.marketplaces = msg.marketplaces
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case handshakeStarted:
		v.session = msg.session
		v.step = StepAuthorising
		return v, v.waitForOutcome(msg.session)

	case handshakeFailed:
		v.notice = msg.err.Error()
		v.step = StepEnterConfig
		return v, nil

	case messages.HandshakeResolved:
		if msg.Outcome.IsSuccess() {
			cmd := v.exchangeAndLink(msg.Outcome.Payload)
			v.session = nil
			return v, cmd
		}
		v.session = nil
		v.notice = msg.Outcome.UserMessage()
		v.step = StepEnterConfig
		return v, v.focusField(v.focusIndex)

	case messages.StoreLinked:
		if msg.Err != nil {
			v.notice = msg.Err.Error()
			v.step = StepEnterConfig
			return v, nil
		}
		v.connection = &msg.Connection
		v.step = StepComplete
		return v, nil
	}

	return v, nil
}

// handleKeyMsg routes key presses to the current step.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.step {
	case StepSelectMarketplace:
		return v.handleSelectKey(msg)
	case StepEnterConfig:
		return v.handleConfigKey(msg)
	case StepAuthorising:
		return v.handleAuthorisingKey(msg)
	case StepComplete:
		return v.handleCompleteKey(msg)
	}
	return v, nil
}

// handleSelectKey handles keys on the marketplace selection step.
func (v *View) handleSelectKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.marketplaces)-1 {
			v.selected++
		}
	case keyEnter:
		if len(v.marketplaces) == 0 {
			return v, nil
		}
		v.marketplace = &v.marketplaces[v.selected]
		v.initConfigFields()
		v.step = StepEnterConfig
		v.notice = ""
		return v, v.focusField(0)
	case "esc":
		return v, changeView(messages.ViewMenu)
	}
	return v, nil
}

// initConfigFields builds one input field per marketplace config key.
func (v *View) initConfigFields() {
	v.configKeys = v.marketplace.ConfigKeys
	v.configFields = make([]*input.Field, len(v.configKeys))
	for i, key := range v.configKeys {
		f := input.NewField(v.styles, key.Label, key.Description, key.Secret)
		if key.Default != "" {
			f.SetValue(key.Default)
		}
		f.SetWidth(v.width)
		v.configFields[i] = f
	}
	v.focusIndex = 0
}

// focusField focuses one config field and blurs the rest.
func (v *View) focusField(index int) tea.Cmd {
	if len(v.configFields) == 0 {
		return nil
	}
	if index < 0 || index >= len(v.configFields) {
		index = 0
	}
	v.focusIndex = index
	var cmd tea.Cmd
	for i, f := range v.configFields {
		if i == index {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

// handleConfigKey handles keys on the credentials step.
func (v *View) handleConfigKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.notice = ""
		v.step = StepSelectMarketplace
		return v, nil

	case "tab", keyDown:
		return v, v.focusField((v.focusIndex + 1) % len(v.configFields))

	case "shift+tab", "up":
		return v, v.focusField((v.focusIndex - 1 + len(v.configFields)) % len(v.configFields))

	case keyEnter:
		if v.focusIndex < len(v.configFields)-1 {
			return v, v.focusField(v.focusIndex + 1)
		}
		return v.submitConfig()
	}

	var cmd tea.Cmd
	if v.focusIndex < len(v.configFields) {
		v.configFields[v.focusIndex], cmd = v.configFields[v.focusIndex].Update(msg)
	}
	return v, cmd
}

// submitConfig validates the entered config and either starts the
// handshake or stores the API credentials directly.
func (v *View) submitConfig() (*View, tea.Cmd) {
	cfg := v.configValues()

	for _, key := range v.configKeys {
		if key.Required && strings.TrimSpace(cfg[key.Key]) == "" {
			v.notice = fmt.Sprintf("%s is required", key.Label)
			return v, nil
		}
	}
	v.notice = ""

	if v.marketplace.RequiresOAuth() {
		return v, v.startHandshake(v.marketplace, cfg)
	}
	return v, v.linkWithAPIKey(v.marketplace, cfg)
}

// configValues collects the entered values keyed by config key.
func (v *View) configValues() map[string]string {
	cfg := make(map[string]string, len(v.configFields))
	for i, f := range v.configFields {
		cfg[v.configKeys[i].Key] = strings.TrimSpace(f.Value())
	}
	return cfg
}

// startHandshake returns a command that starts a browser handshake.
func (v *View) startHandshake(m *domain.Marketplace, cfg map[string]string) tea.Cmd {
	return func() tea.Msg {
		req := driving.HandshakeRequest{
			Marketplace: m,
			OwnerUserID: v.ownerUserID,
			Params: domain.HandshakeParams{
				DisplayName: cfg["display_name"],
				ShopDomain:  cfg["shop_domain"],
			},
		}
		session, err := v.broker.Start(context.Background(), req)
		if err != nil {
			return handshakeFailed{err: err}
		}
		return handshakeStarted{session: session}
	}
}

// waitForOutcome returns a command that blocks until the handshake
// resolves. Exactly one outcome arrives per started handshake.
func (v *View) waitForOutcome(session driving.Handshake) tea.Cmd {
	return func() tea.Msg {
		outcome := session.Wait(context.Background())
		return messages.HandshakeResolved{Outcome: outcome}
	}
}

// exchangeAndLink swaps the authorization code for tokens and persists
// the store connection.
func (v *View) exchangeAndLink(payload *domain.HandoffPayload) tea.Cmd {
	m := v.marketplace
	cfg := v.configValues()
	callbackURL := ""
	if v.session != nil {
		callbackURL = v.session.CallbackURL()
	}

	return func() tea.Msg {
		if payload == nil {
			return messages.StoreLinked{Err: fmt.Errorf("handshake succeeded without a payload: %w", domain.ErrInvalidInput)}
		}

		app, err := v.registry.OAuthApp(m.ID)
		if err != nil {
			return messages.StoreLinked{Err: err}
		}

		shopDomain := payload.ShopDomain
		if shopDomain == "" {
			shopDomain = cfg["shop_domain"]
		}

		ctx := context.Background()
		creds, err := v.exchanger.Exchange(ctx, m, app, payload.AuthorizationCode, callbackURL, domain.HandshakeParams{ShopDomain: shopDomain})
		if err != nil {
			return messages.StoreLinked{Err: err}
		}

		conn, err := v.stores.Connect(ctx, domain.StoreConnection{
			OwnerUserID: v.ownerUserID,
			Platform:    m.Platform,
			Domain:      shopDomain,
			DisplayName: cfg["display_name"],
			Credentials: domain.Credentials{OAuth: creds},
		})
		if err != nil {
			return messages.StoreLinked{Err: err}
		}
		return messages.StoreLinked{Connection: *conn}
	}
}

// linkWithAPIKey persists a store connection from directly entered
// API credentials, skipping the browser handshake.
func (v *View) linkWithAPIKey(m *domain.Marketplace, cfg map[string]string) tea.Cmd {
	return func() tea.Msg {
		conn, err := v.stores.Connect(context.Background(), domain.StoreConnection{
			OwnerUserID: v.ownerUserID,
			Platform:    m.Platform,
			Domain:      storeDomain(cfg),
			DisplayName: cfg["display_name"],
			Credentials: domain.Credentials{APIKey: apiKeyCredentials(cfg)},
		})
		if err != nil {
			return messages.StoreLinked{Err: err}
		}
		return messages.StoreLinked{Connection: *conn}
	}
}

// storeDomain picks the natural-key domain from the entered config.
func storeDomain(cfg map[string]string) string {
	for _, key := range []string{"shop_domain", "site_url", "store_hash"} {
		if cfg[key] != "" {
			return cfg[key]
		}
	}
	return ""
}

// apiKeyCredentials maps entered config keys onto API credentials.
func apiKeyCredentials(cfg map[string]string) *domain.APIKeyCredentials {
	creds := &domain.APIKeyCredentials{Secret: cfg["consumer_secret"]}
	for _, key := range []string{"consumer_key", "access_token", "api_key"} {
		if cfg[key] != "" {
			creds.Key = cfg[key]
			break
		}
	}
	return creds
}

// handleAuthorisingKey handles keys while waiting for the handshake.
func (v *View) handleAuthorisingKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" && v.session != nil {
		// The pending waitForOutcome command delivers the Cancelled outcome.
		v.session.Cancel()
	}
	return v, nil
}

// handleCompleteKey handles keys on the success step.
func (v *View) handleCompleteKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEnter, "esc":
		return v, changeView(messages.ViewStores)
	}
	return v, nil
}

// changeView returns a command that navigates to another view.
func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the wizard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Link a store"))
	b.WriteString("\n")
	b.WriteString(v.renderProgress())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	switch v.step {
	case StepSelectMarketplace:
		b.WriteString(v.renderSelect())
	case StepEnterConfig:
		b.WriteString(v.renderConfig())
	case StepAuthorising:
		b.WriteString(v.renderAuthorising())
	case StepComplete:
		b.WriteString(v.renderComplete())
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderProgress renders the wizard breadcrumb.
func (v *View) renderProgress() string {
	steps := []string{"Select", "Credentials", "Success"}
	current := 0
	switch v.step {
	case StepSelectMarketplace:
		current = 0
	case StepEnterConfig, StepAuthorising:
		current = 1
	case StepComplete:
		current = 2
	}

	parts := make([]string, len(steps))
	for i, s := range steps {
		if i == current {
			parts[i] = v.styles.Subtitle.Render(s)
		} else {
			parts[i] = v.styles.Muted.Render(s)
		}
	}
	return strings.Join(parts, v.styles.Muted.Render(" > "))
}

// renderSelect renders the marketplace selection list.
func (v *View) renderSelect() string {
	if len(v.marketplaces) == 0 {
		return v.styles.Muted.Render("Loading marketplaces...")
	}

	var b strings.Builder
	b.WriteString(v.styles.Normal.Render("Choose a marketplace:"))
	b.WriteString("\n\n")

	for i, m := range v.marketplaces {
		cursor := "  "
		line := fmt.Sprintf("%s (%s)", m.Name, m.AuthCapability)
		if i == v.selected {
			cursor = "> "
			b.WriteString(cursor + v.styles.Selected.Render(line))
		} else {
			b.WriteString(cursor + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("    " + m.Description))
		b.WriteString("\n")
	}
	return b.String()
}

// renderConfig renders the credential entry form.
func (v *View) renderConfig() string {
	var b strings.Builder

	b.WriteString(v.styles.Normal.Render("Configure " + v.marketplace.Name + ":"))
	b.WriteString("\n\n")

	if v.notice != "" {
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n\n")
	}

	for _, f := range v.configFields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	return b.String()
}

// renderAuthorising renders the waiting state while the popup is open.
func (v *View) renderAuthorising() string {
	var b strings.Builder

	b.WriteString(v.styles.Normal.Render("A browser window has opened to authorise " + v.marketplace.Name + "."))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Complete the authorisation there; this screen updates automatically."))
	b.WriteString("\n\n")

	if v.session != nil && v.session.AuthURL() != "" {
		b.WriteString(v.styles.Muted.Render("If nothing opened, visit:"))
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render(v.session.AuthURL()))
		b.WriteString("\n")
	}
	return b.String()
}

// renderComplete renders the success step.
func (v *View) renderComplete() string {
	var b strings.Builder

	b.WriteString(v.styles.Success.Render("Store linked"))
	b.WriteString("\n\n")

	if v.connection != nil {
		b.WriteString(v.styles.Normal.Render(v.connection.Label()))
		b.WriteString("\n")
		detail := string(v.connection.Platform)
		if v.connection.Domain != "" {
			detail += "  " + v.connection.Domain
		}
		b.WriteString(v.styles.Muted.Render(detail))
		b.WriteString("\n")
	}
	return b.String()
}

// renderHelp renders the per-step key hints.
func (v *View) renderHelp() string {
	switch v.step {
	case StepSelectMarketplace:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case StepEnterConfig:
		return v.styles.Help.Render("[tab] next field  [enter] continue  [esc] back")
	case StepAuthorising:
		return v.styles.Help.Render("[esc] cancel")
	case StepComplete:
		return v.styles.Help.Render("[enter] view stores")
	}
	return ""
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	for _, f := range v.configFields {
		f.SetWidth(width)
	}
}

// Step returns the current wizard step.
func (v *View) Step() WizardStep {
	return v.step
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Notice returns the current dismissable notice.
func (v *View) Notice() string {
	return v.notice
}

// Connection returns the linked connection once StepComplete is reached.
func (v *View) Connection() *domain.StoreConnection {
	return v.connection
}

// Reset returns the wizard to its initial state.
func (v *View) Reset() {
	if v.session != nil {
		v.session.Cancel()
		v.session = nil
	}
	v.step = StepSelectMarketplace
	v.selected = 0
	v.marketplace = nil
	v.configFields = nil
	v.configKeys = nil
	v.focusIndex = 0
	v.notice = ""
	v.connection = nil
	v.err = nil
}
