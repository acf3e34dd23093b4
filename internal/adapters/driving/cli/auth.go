package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage marketplace OAuth apps",
	Long: `Add, list, and remove OAuth application credentials for marketplaces.

OAuth marketplaces (Shopify, Etsy, eBay, Amazon, Square) authorise through
an OAuth app you register in the marketplace's developer console. Store its
client ID and client secret here before linking; API-key marketplaces
(BigCommerce, WooCommerce) need no OAuth app.

Examples:
  # Add credentials interactively
  sellbridge auth add shopify

  # Add credentials non-interactively
  sellbridge auth add etsy --client-id "xxx" --client-secret "yyy"

  # List configured OAuth apps
  sellbridge auth list

  # Remove credentials
  sellbridge auth remove shopify`,
}

var (
	authClientID     string
	authClientSecret string
	authScopes       []string
)

var authAddCmd = &cobra.Command{
	Use:   "add [marketplace-id]",
	Short: "Add OAuth app credentials for a marketplace",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthAdd,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured OAuth apps",
	RunE:  runAuthList,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove [marketplace-id]",
	Short: "Remove OAuth app credentials for a marketplace",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

func init() {
	authAddCmd.Flags().StringVar(&authClientID, "client-id", "", "OAuth client ID")
	authAddCmd.Flags().StringVar(&authClientSecret, "client-secret", "", "OAuth client secret")
	authAddCmd.Flags().StringSliceVar(&authScopes, "scopes", nil, "override the default OAuth scopes")

	authCmd.AddCommand(authAddCmd)
	authCmd.AddCommand(authListCmd)
	authCmd.AddCommand(authRemoveCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthAdd(cmd *cobra.Command, args []string) error {
	if marketplaceRegistry == nil || configStore == nil {
		return errors.New("marketplace registry not configured")
	}

	m, err := marketplaceRegistry.Get(args[0])
	if err != nil {
		return err
	}
	if !m.RequiresOAuth() {
		return fmt.Errorf("%s links with API credentials, not OAuth; use 'sellbridge connect %s'", m.Name, m.ID)
	}

	clientID := authClientID
	if clientID == "" {
		cmd.Printf("Client ID for %s: ", m.Name)
		clientID = readLine()
	}
	if clientID == "" {
		return errors.New("client ID is required")
	}

	clientSecret := authClientSecret
	if clientSecret == "" {
		cmd.Printf("Client secret for %s: ", m.Name)
		clientSecret = readPassword()
		cmd.Println()
	}
	if clientSecret == "" {
		return errors.New("client secret is required")
	}

	if err := configStore.Set(fmt.Sprintf("marketplaces.%s.client_id", m.ID), clientID); err != nil {
		return fmt.Errorf("failed to save client ID: %w", err)
	}
	if err := configStore.Set(fmt.Sprintf("marketplaces.%s.client_secret", m.ID), clientSecret); err != nil {
		return fmt.Errorf("failed to save client secret: %w", err)
	}
	if len(authScopes) > 0 {
		if err := configStore.Set(fmt.Sprintf("marketplaces.%s.scopes", m.ID), authScopes); err != nil {
			return fmt.Errorf("failed to save scopes: %w", err)
		}
	}

	cmd.Printf("OAuth app saved for %s.\n", m.Name)
	cmd.Printf("Link a store with: sellbridge connect %s\n", m.ID)
	return nil
}

func runAuthList(cmd *cobra.Command, _ []string) error {
	if marketplaceRegistry == nil {
		return errors.New("marketplace registry not configured")
	}

	cmd.Println("Marketplace OAuth apps:")
	cmd.Println()
	for _, m := range marketplaceRegistry.List() {
		if !m.RequiresOAuth() {
			continue
		}
		app, err := marketplaceRegistry.OAuthApp(m.ID)
		if err != nil {
			if errors.Is(err, domain.ErrOAuthNotConfigured) {
				cmd.Printf("  %-12s not configured\n", m.ID)
				continue
			}
			return err
		}
		cmd.Printf("  %-12s client_id=%s client_secret=%s\n", m.ID, app.ClientID, maskSecret(app.ClientSecret))
	}
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	if marketplaceRegistry == nil || configStore == nil {
		return errors.New("marketplace registry not configured")
	}

	m, err := marketplaceRegistry.Get(args[0])
	if err != nil {
		return err
	}

	for _, key := range []string{"client_id", "client_secret"} {
		if err := configStore.Set(fmt.Sprintf("marketplaces.%s.%s", m.ID, key), ""); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	if err := configStore.Set(fmt.Sprintf("marketplaces.%s.scopes", m.ID), []string{}); err != nil {
		return fmt.Errorf("failed to remove scopes: %w", err)
	}

	cmd.Printf("OAuth app removed for %s.\n", m.Name)
	return nil
}
