package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

var (
	connectName   string
	connectConfig []string
)

var connectCmd = &cobra.Command{
	Use:   "connect [marketplace-id]",
	Short: "Link a marketplace store",
	Long: `Link a marketplace store to your Sellbridge account.

OAuth marketplaces open the authorisation page in your browser and wait for
you to approve access. API-key marketplaces take their credentials via -c
flags or interactive prompts.

Examples:
  # Link a Shopify store (opens the browser)
  sellbridge connect shopify -c shop_domain=acme.myshopify.com --name "Acme"

  # Link a WooCommerce store non-interactively
  sellbridge connect woocommerce \
    -c site_url=https://shop.example.com \
    -c consumer_key=ck_xxx -c consumer_secret=cs_yyy

  # Prompt for anything not given on the command line
  sellbridge connect bigcommerce`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVar(&connectName, "name", "", "display name for the store")
	connectCmd.Flags().StringArrayVarP(&connectConfig, "config", "c", nil, "marketplace parameter as key=value (repeatable)")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	if marketplaceRegistry == nil || storeService == nil {
		return errors.New("store service not configured")
	}

	m, err := marketplaceRegistry.Get(args[0])
	if err != nil {
		return err
	}

	cfg, err := parseConfigFlags(connectConfig)
	if err != nil {
		return err
	}
	if connectName != "" {
		cfg["display_name"] = connectName
	}
	promptMissingKeys(cmd, m, cfg)

	for _, key := range m.ConfigKeys {
		if key.Required && cfg[key.Key] == "" {
			return fmt.Errorf("%s is required", key.Label)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if m.RequiresOAuth() {
		return connectOAuth(ctx, cmd, m, cfg)
	}
	return connectAPIKey(ctx, cmd, m, cfg)
}

// connectOAuth runs the browser handshake and persists the store on success.
func connectOAuth(ctx context.Context, cmd *cobra.Command, m *domain.Marketplace, cfg map[string]string) error {
	if handshakeBroker == nil || tokenExchanger == nil {
		return errors.New("handshake broker not configured")
	}

	params := domain.HandshakeParams{
		DisplayName: cfg["display_name"],
		ShopDomain:  cfg["shop_domain"],
	}

	session, err := handshakeBroker.Start(ctx, driving.HandshakeRequest{
		Marketplace: m,
		OwnerUserID: ownerUserID,
		Params:      params,
	})
	if err != nil {
		return fmt.Errorf("failed to start authorisation: %w", err)
	}

	cmd.Printf("Waiting for authorisation in your browser...\n")
	cmd.Printf("If the browser did not open, visit:\n  %s\n", session.AuthURL())

	outcome := session.Wait(ctx)
	if !outcome.IsSuccess() {
		return fmt.Errorf("authorisation failed: %s", outcome.UserMessage())
	}

	app, err := marketplaceRegistry.OAuthApp(m.ID)
	if err != nil {
		return err
	}

	shopDomain := outcome.Payload.ShopDomain
	if shopDomain == "" {
		shopDomain = cfg["shop_domain"]
	}

	creds, err := tokenExchanger.Exchange(ctx, m, app, outcome.Payload.AuthorizationCode, session.CallbackURL(),
		domain.HandshakeParams{ShopDomain: shopDomain})
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	conn, err := storeService.Connect(ctx, domain.StoreConnection{
		OwnerUserID: ownerUserID,
		Platform:    m.Platform,
		Domain:      domain.NormalizeDomain(shopDomain),
		DisplayName: cfg["display_name"],
		Credentials: domain.Credentials{OAuth: creds},
	})
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}

	cmd.Printf("Linked %s (%s).\n", conn.Label(), conn.ID)
	return nil
}

// connectAPIKey persists the store directly from the entered credentials.
func connectAPIKey(ctx context.Context, cmd *cobra.Command, m *domain.Marketplace, cfg map[string]string) error {
	creds := apiKeyCredentials(cfg)
	if creds == nil {
		return errors.New("API credentials are required")
	}

	conn, err := storeService.Connect(ctx, domain.StoreConnection{
		OwnerUserID: ownerUserID,
		Platform:    m.Platform,
		Domain:      domain.NormalizeDomain(storeDomain(cfg)),
		DisplayName: cfg["display_name"],
		Credentials: domain.Credentials{APIKey: creds},
	})
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}

	cmd.Printf("Linked %s (%s).\n", conn.Label(), conn.ID)
	return nil
}

// promptMissingKeys asks for any marketplace parameter not supplied via
// flags. Secret values are read without echo.
func promptMissingKeys(cmd *cobra.Command, m *domain.Marketplace, cfg map[string]string) {
	for _, key := range m.ConfigKeys {
		if cfg[key.Key] != "" || !key.Required {
			continue
		}
		cmd.Printf("%s: ", key.Label)
		if key.Secret {
			cfg[key.Key] = readPassword()
			cmd.Println()
		} else {
			cfg[key.Key] = readLine()
		}
		if cfg[key.Key] == "" && key.Default != "" {
			cfg[key.Key] = key.Default
		}
	}
}

// parseConfigFlags turns repeated -c key=value flags into a map.
func parseConfigFlags(flags []string) (map[string]string, error) {
	cfg := make(map[string]string, len(flags))
	for _, flag := range flags {
		parts := strings.SplitN(flag, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid config flag %q, expected key=value", flag)
		}
		cfg[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return cfg, nil
}

// storeDomain picks the store identifier from the entered parameters.
func storeDomain(cfg map[string]string) string {
	for _, key := range []string{"shop_domain", "site_url", "store_hash"} {
		if cfg[key] != "" {
			return cfg[key]
		}
	}
	return ""
}

// apiKeyCredentials builds API-key credentials from the entered
// parameters, nil when no key was given.
func apiKeyCredentials(cfg map[string]string) *domain.APIKeyCredentials {
	for _, key := range []string{"consumer_key", "access_token", "api_key"} {
		if cfg[key] != "" {
			return &domain.APIKeyCredentials{
				Key:    cfg[key],
				Secret: cfg["consumer_secret"],
			}
		}
	}
	return nil
}
