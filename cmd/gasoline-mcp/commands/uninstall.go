package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
	"github.com/gasoline-dev/gasoline-mcp/internal/installer"
)

// Package-level flag variables for the uninstall command.
var (
	uninstallDryRun     bool
	uninstallFirstMatch bool
	uninstallClients    []string
)

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallDryRun, "dry-run", false,
		"report intended changes without writing anything")
	uninstallCmd.Flags().StringSliceVar(&uninstallClients, "client", nil,
		"restrict to the given client ids (repeatable)")
	uninstallCmd.Flags().BoolVar(&uninstallFirstMatch, "first-match", false,
		"stop after the first client that succeeds (legacy behavior)")
	rootCmd.AddCommand(uninstallCmd)
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the gasoline server from detected clients",
	Long: `Remove the gasoline MCP server entry from every detected client.

A config file left with no other server entries is deleted rather than
written back as an empty shell; files holding other entries keep them
untouched. Clients without the entry are reported as not configured.`,
	Example: `  gasoline-mcp uninstall
  gasoline-mcp uninstall --dry-run`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	reg := client.Default()
	targets, err := resolveTargets(reg, uninstallClients)
	if err != nil {
		return err
	}

	opts := installer.Options{
		DryRun:         uninstallDryRun,
		FirstMatchOnly: uninstallFirstMatch,
		Targets:        targets,
		CommandTimeout: settings.CommandTimeout,
		Logger:         slog.Default(),
	}

	if targets == nil && len(reg.Detected(client.CurrentPlatform())) == 0 {
		return cliErrors.NewUserError(cliErrors.ErrNoClients,
			"No supported clients are installed; nothing to remove")
	}

	batch := installer.Uninstall(cmd.Context(), reg, opts)
	printBatch(cmd.OutOrStdout(), batch, "removed")

	// Nothing-to-remove across the board is a clean result, not a failure.
	if !batch.Success() && len(batch.Failed) == 0 {
		return nil
	}
	return batchError(batch, "removed")
}
