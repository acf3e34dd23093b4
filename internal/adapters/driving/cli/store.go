package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage linked stores",
	Long: `List, rename, and remove linked marketplace stores.

Examples:
  sellbridge store list
  sellbridge store rename <store-id> "Acme EU"
  sellbridge store remove <store-id>`,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List linked stores",
	RunE:  runStoreList,
}

var storeRenameCmd = &cobra.Command{
	Use:   "rename [store-id] [name]",
	Short: "Rename a linked store",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreRename,
}

var storeRemoveCmd = &cobra.Command{
	Use:   "remove [store-id]",
	Short: "Remove a linked store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreRemove,
}

func init() {
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeRenameCmd)
	storeCmd.AddCommand(storeRemoveCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreList(cmd *cobra.Command, _ []string) error {
	if storeService == nil {
		return errors.New("store service not configured")
	}

	connections, err := storeService.List(context.Background(), ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}

	if len(connections) == 0 {
		cmd.Println("No stores linked yet. Run 'sellbridge connect <marketplace-id>' to link one.")
		return nil
	}

	cmd.Printf("Linked stores (%d):\n\n", len(connections))
	for _, conn := range connections {
		status := "authenticated"
		if !conn.Credentials.IsAuthenticated() {
			status = "not authenticated"
		}
		cmd.Printf("  %s\n", conn.Label())
		cmd.Printf("    ID:       %s\n", conn.ID)
		cmd.Printf("    Platform: %s\n", conn.Platform)
		if conn.Domain != "" {
			cmd.Printf("    Domain:   %s\n", conn.Domain)
		}
		cmd.Printf("    Status:   %s\n", status)
		cmd.Println()
	}
	return nil
}

func runStoreRename(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errors.New("store service not configured")
	}

	if err := storeService.Rename(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename store: %w", err)
	}

	cmd.Printf("Renamed store %s to %q.\n", args[0], args[1])
	return nil
}

func runStoreRemove(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errors.New("store service not configured")
	}

	if err := storeService.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove store: %w", err)
	}

	cmd.Printf("Removed store %s.\n", args[0])
	return nil
}
