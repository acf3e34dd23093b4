package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var marketplacesCmd = &cobra.Command{
	Use:   "marketplaces",
	Short: "List supported marketplaces",
	RunE:  runMarketplaces,
}

func init() {
	rootCmd.AddCommand(marketplacesCmd)
}

func runMarketplaces(cmd *cobra.Command, _ []string) error {
	if marketplaceRegistry == nil {
		return errors.New("marketplace registry not configured")
	}

	cmd.Println("Supported marketplaces:")
	cmd.Println()
	for _, m := range marketplaceRegistry.List() {
		method := "API key"
		if m.RequiresOAuth() {
			method = "OAuth"
		}
		cmd.Printf("  %-12s %-12s %s\n", m.ID, method, m.Description)
	}
	cmd.Println()
	cmd.Println("Link a store with: sellbridge connect <marketplace-id>")
	return nil
}
