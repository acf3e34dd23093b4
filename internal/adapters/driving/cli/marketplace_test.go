package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketplacesCmd_Executes(t *testing.T) {
	_, cleanup := setupCLITest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"marketplaces"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "shopify")
	assert.Contains(t, buf.String(), "OAuth")
	assert.Contains(t, buf.String(), "woocommerce")
	assert.Contains(t, buf.String(), "API key")
}

func TestMarketplacesCmd_RequiresRegistry(t *testing.T) {
	_, cleanup := setupCLITest()
	defer cleanup()
	marketplaceRegistry = nil

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"marketplaces"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorContains(t, err, "marketplace registry not configured")
}
