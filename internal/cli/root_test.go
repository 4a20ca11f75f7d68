package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "daftar", cmd.Use)
	assert.Contains(t, cmd.Long, "bookkeeping")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"sale", "product", "customer", "contract", "stock", "notifications", "export", "import", "settings", "expiry"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestSaleCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"sale", "add"})
	require.NoError(t, err)

	for _, flag := range []string{"customer", "product", "qty", "price", "method", "date", "status", "notes"} {
		assert.NotNil(t, addCmd.Flags().Lookup(flag), "sale add --%s", flag)
	}
}

func TestProductCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"product", "add"})
	require.NoError(t, err)

	for _, flag := range []string{"name", "code", "price", "cost", "stock", "min-stock", "category", "unit"} {
		assert.NotNil(t, addCmd.Flags().Lookup(flag), "product add --%s", flag)
	}
}

func TestCustomerCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"customer", "add"})
	require.NoError(t, err)

	for _, flag := range []string{"name", "phone", "email", "company", "type", "registered"} {
		assert.NotNil(t, addCmd.Flags().Lookup(flag), "customer add --%s", flag)
	}
}

func TestContractCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"contract", "add"})
	require.NoError(t, err)

	for _, flag := range []string{"customer", "type", "value", "duration", "start", "end", "status"} {
		assert.NotNil(t, addCmd.Flags().Lookup(flag), "contract add --%s", flag)
	}
}

func TestStockCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	adjustCmd, _, err := cmd.Find([]string{"stock", "adjust"})
	require.NoError(t, err)

	assert.NotNil(t, adjustCmd.Flags().Lookup("amount"))
	assert.NotNil(t, adjustCmd.Flags().Lookup("reason"))
}

func TestNotificationsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	listCmd, _, err := cmd.Find([]string{"notifications", "list"})
	require.NoError(t, err)
	assert.NotNil(t, listCmd.Flags().Lookup("kind"))

	readCmd, _, err := cmd.Find([]string{"notifications", "read"})
	require.NoError(t, err)
	readAll := readCmd.Flags().Lookup("all")
	require.NotNil(t, readAll)
	assert.Equal(t, "false", readAll.DefValue)
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)

	outputFlag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestSettingsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	setCmd, _, err := cmd.Find([]string{"settings", "set"})
	require.NoError(t, err)

	for _, flag := range []string{"secret", "clear-secret", "low-stock", "alert-days", "sales-alerts", "stock-alerts", "contract-alerts"} {
		assert.NotNil(t, setCmd.Flags().Lookup(flag), "settings set --%s", flag)
	}
}

func TestFormatValidation(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "expiry"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}
