// Command sellbridge links marketplace stores to a Sellbridge account
// from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driven/config/file"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driven/exchange"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driven/handoff"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driven/popup"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driven/storage/sqlite"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/callback"
	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/cli"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/services"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

// cleanups collects shutdown hooks registered while building services.
var cleanups []func()

func main() {
	cli.SetVersion(version)
	cli.SetServiceBuilder(buildServices)

	err := cli.Execute()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices wires the adapters and core services. configDir comes
// from the --config-dir flag, empty for the default ~/.sellbridge.
func buildServices(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("initialising config: %w", err)
	}

	ownerUserID, err := configStore.OwnerUserID()
	if err != nil {
		return nil, fmt.Errorf("initialising user identity: %w", err)
	}

	watcher := file.NewWatcher(configStore, func() {
		logger.Debug("configuration reloaded from %s", configStore.Path())
	})
	if err := watcher.Start(); err != nil {
		logger.Debug("config watcher unavailable: %v", err)
	} else {
		cleanups = append(cleanups, watcher.Stop)
	}

	var dataDir string
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("initialising storage: %w", err)
	}
	cleanups = append(cleanups, func() {
		if err := store.Close(); err != nil {
			logger.Debug("closing storage: %v", err)
		}
	})

	registry := services.NewMarketplaceRegistry(configStore)
	handoffStore := handoff.NewMemoryStore()

	binder := callback.NewBinder(handoffStore)
	if start := configStore.GetInt("callback.port_start"); start > 0 {
		if end := configStore.GetInt("callback.port_end"); end >= start {
			binder = callback.NewBinderWithPortRange(handoffStore, start, end)
		}
	}

	broker := services.NewHandshakeBroker(
		handoffStore,
		popup.NewBrowserLauncher(),
		binder,
		exchange.NewMinter(),
		registry,
	)

	return &cli.Services{
		Registry:    registry,
		Stores:      services.NewStoreService(store.ConnectionStore()),
		Broker:      broker,
		Exchanger:   exchange.NewExchanger(),
		Config:      configStore,
		OwnerUserID: ownerUserID,
	}, nil
}
