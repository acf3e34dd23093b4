// Package cli implements the command-line interface for Sellbridge.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

// version is the build version, overridden at build time via ldflags.
var version = "dev"

// Services injected by main before Execute. Commands check for nil and
// fail with a clear error instead of panicking.
var (
	marketplaceRegistry driving.MarketplaceRegistry
	storeService        driving.StoreService
	handshakeBroker     driving.HandshakeBroker
	tokenExchanger      driven.TokenExchanger
	configStore         driven.ConfigStore
	ownerUserID         string
)

var rootCmd = &cobra.Command{
	Use:   "sellbridge",
	Short: "Link your marketplace stores from the terminal",
	Long: `Sellbridge links your Shopify, Etsy, eBay, Amazon, Square, BigCommerce
and WooCommerce stores to a single account from the terminal.

OAuth marketplaces authorise through your browser; API-key marketplaces
take their credentials directly. Run 'sellbridge tui' for the interactive
interface, or use the subcommands for scripted linking.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(rootVerbose)
	},
	// Bare `sellbridge` opens the TUI.
	RunE: runTUI,
}

var (
	rootVerbose   bool
	rootConfigDir string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&rootConfigDir, "config-dir", "", "configuration directory (default ~/.sellbridge)")
	cobra.OnInitialize(initServices)
}

// serviceBuilder constructs the services once flags are parsed, so that
// --config-dir takes effect before anything touches the filesystem.
// main registers it; tests inject mocks via SetServices instead.
var serviceBuilder func(configDir string) (*Services, error)

// SetServiceBuilder registers the function that builds the services
// after flag parsing.
func SetServiceBuilder(build func(configDir string) (*Services, error)) {
	serviceBuilder = build
}

func initServices() {
	if serviceBuilder == nil {
		return
	}
	build := serviceBuilder
	serviceBuilder = nil

	s, err := build(rootConfigDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	SetServices(s)
}

// Services bundles everything the CLI commands need.
type Services struct {
	Registry    driving.MarketplaceRegistry
	Stores      driving.StoreService
	Broker      driving.HandshakeBroker
	Exchanger   driven.TokenExchanger
	Config      driven.ConfigStore
	OwnerUserID string
}

// SetServices injects the core services into the CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	marketplaceRegistry = s.Registry
	storeService = s.Stores
	handshakeBroker = s.Broker
	tokenExchanger = s.Exchanger
	configStore = s.Config
	ownerUserID = s.OwnerUserID
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
