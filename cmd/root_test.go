package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"compute", "import", "queue", "serve", "sync", "brief", "history"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "lead-intel", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestComputeCommand_Flags(t *testing.T) {
	formatFlag := computeCmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag, "compute command should have --format flag")
	assert.Equal(t, "table", formatFlag.DefValue)

	for _, flagName := range []string{
		"csv", "xlsx", "sheet", "store", "notion", "output", "save",
		"hot-top-n", "value-top-n", "hot-priority-floor",
		"value-floor", "intent-min-signals", "active-days",
	} {
		flag := computeCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "compute should have --%s flag", flagName)
	}
}

func TestImportCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"csv", "xlsx", "sheet", "notion", "label"} {
		flag := importCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "import should have --%s flag", flagName)
	}
}

func TestQueueCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"csv", "xlsx", "store", "notion", "out"} {
		flag := queueCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "queue should have --%s flag", flagName)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSyncCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"csv", "xlsx", "store", "notion", "dry-run", "link-contacts"} {
		flag := syncCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "sync should have --%s flag", flagName)
	}

	dryRun := syncCmd.Flags().Lookup("dry-run")
	assert.Equal(t, "false", dryRun.DefValue)
}

func TestBriefCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"csv", "xlsx", "store", "notion", "offline", "model"} {
		flag := briefCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "brief should have --%s flag", flagName)
	}
}
