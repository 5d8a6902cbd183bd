// Package commands implements the CLI commands for gasoline-mcp.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gasoline-dev/gasoline-mcp/internal/config"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
	"github.com/gasoline-dev/gasoline-mcp/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// settings holds the loaded tool settings.
var settings *config.Settings

// settingsLoadErr holds any error that occurred during settings loading.
var settingsLoadErr error

func init() {
	cobra.OnInitialize(initSettings)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format: text, json")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("gasoline-mcp version {{.Version}}\n")

	// Silence errors and usage so Execute controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initSettings() {
	config.Init()
	settings, settingsLoadErr = config.Load("")
	if settings == nil {
		settings = &config.Settings{
			CommandTimeout: config.DefaultCommandTimeout,
			ProbeTimeout:   config.DefaultProbeTimeout,
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "gasoline-mcp",
	Short: "Register the gasoline MCP server with AI assistant clients",
	Long: `gasoline-mcp registers, diagnoses, and removes the gasoline MCP
server entry in the configurations of supported AI assistant clients:
Claude Code, Claude Desktop, Cursor, Windsurf, and VS Code.

File-based clients are configured by merging the server entry into their
JSON config; Claude Code is registered through its own CLI. Operations
never touch anything in a config beyond the gasoline entry itself.`,
	Example: `  # Register with every detected client
  gasoline-mcp install

  # Preview changes without writing anything
  gasoline-mcp install --dry-run

  # Pass environment variables to the server
  gasoline-mcp install --env DEBUG=1 --env API_KEY=secret

  # Remove from every detected client
  gasoline-mcp uninstall

  # Check configuration health
  gasoline-mcp doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if settingsLoadErr != nil {
			return cliErrors.NewUserError(settingsLoadErr,
				"Fix or remove the settings file at "+config.DefaultSettingsPath())
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return cliErrors.NewUserError(
			errors.New("--quiet and --verbose cannot be used together"),
			"Drop one of the two flags")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			if val, ok := os.LookupEnv("GASOLINE_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(logFormat)
	if logFormat == "" && settings != nil {
		format = logging.Format(settings.LogFormat)
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(logger)

	return nil
}

// Execute runs the root command, rendering errors with their recovery
// suggestion and mapping them to an exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return cliErrors.ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", errMark(), err)

	code := cliErrors.ExitUser
	var exitErr *cliErrors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "   %s\n", exitErr.Suggestion)
		}
	}
	return code
}
