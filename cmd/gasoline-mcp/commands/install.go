package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gasoline-dev/gasoline-mcp/internal/binary"
	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	"github.com/gasoline-dev/gasoline-mcp/internal/configfile"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
	"github.com/gasoline-dev/gasoline-mcp/internal/installer"
)

// Package-level flag variables for the install command.
var (
	installDryRun     bool
	installEnv        []string
	installFirstMatch bool
	installClients    []string
)

func init() {
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false,
		"report intended changes without writing anything")
	installCmd.Flags().StringSliceVar(&installEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	installCmd.Flags().StringSliceVar(&installClients, "client", nil,
		"restrict to the given client ids (repeatable)")
	installCmd.Flags().BoolVar(&installFirstMatch, "first-match", false,
		"stop after the first client that succeeds (legacy behavior)")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the gasoline server with detected clients",
	Long: `Register the gasoline MCP server with every detected client.

File-based clients get the server entry merged into their JSON config,
creating the file when needed; Claude Code is registered through its own
CLI. Each client is attempted independently: one client failing does not
stop the others.`,
	Example: `  gasoline-mcp install
  gasoline-mcp install --dry-run
  gasoline-mcp install --env DEBUG=1 --env API_KEY=secret
  gasoline-mcp install --client cursor --client vscode`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, _ []string) error {
	envVars, err := parseKeyValueSlice(installEnv, "--env")
	if err != nil {
		return err
	}

	binaryPath, err := binary.Find(settings.BinaryPath)
	if err != nil {
		return cliErrors.NewSystemError(err,
			"Install the gasoline binary or set binary_path in "+
				"the gasoline-mcp settings file")
	}

	reg := client.Default()
	targets, err := resolveTargets(reg, installClients)
	if err != nil {
		return err
	}

	opts := installer.Options{
		DryRun:         installDryRun,
		EnvVars:        envVars,
		FirstMatchOnly: installFirstMatch,
		Targets:        targets,
		CommandTimeout: settings.CommandTimeout,
		Logger:         slog.Default(),
	}

	if targets == nil && len(reg.Detected(client.CurrentPlatform())) == 0 {
		return cliErrors.NewUserError(cliErrors.ErrNoClients,
			"Install a supported client (Claude, Cursor, Windsurf, VS Code) and retry")
	}

	entry := configfile.ServerEntry{Command: binaryPath, Args: []string{}}
	batch := installer.Install(cmd.Context(), reg, entry, opts)
	printBatch(cmd.OutOrStdout(), batch, "installed")

	return batchError(batch, "installed")
}
