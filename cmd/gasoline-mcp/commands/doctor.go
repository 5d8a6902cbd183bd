package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	"github.com/gasoline-dev/gasoline-mcp/internal/doctor"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
)

// doctorOutput holds the value of the --output flag.
var doctorOutput string

func init() {
	doctorCmd.Flags().StringVarP(&doctorOutput, "output", "o", "text",
		"output format: text, json, yaml")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose gasoline client configurations",
	Long: `Check the health of the gasoline server registration in every
supported client without changing anything.

Reports per-client status (ok, needs repair, not detected), verifies the
gasoline server binary responds to --version, and flags orphaned entries
left at configuration paths used by older versions.`,
	Example: `  gasoline-mcp doctor
  gasoline-mcp doctor --output json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	reg := client.Default()
	report := doctor.Run(cmd.Context(), reg, doctor.Options{
		ProbeTimeout: settings.ProbeTimeout,
		BinaryPath:   settings.BinaryPath,
		Logger:       slog.Default(),
	})

	out := cmd.OutOrStdout()
	switch doctorOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		return yaml.NewEncoder(out).Encode(report)
	case "text":
		printReport(out, report)
		return nil
	default:
		return cliErrors.NewUserError(
			fmt.Errorf("unknown output format %q", doctorOutput),
			"Valid formats: text, json, yaml")
	}
}

// printReport renders the human-readable doctor report.
func printReport(w io.Writer, report *doctor.Report) {
	for _, c := range report.Clients {
		mark := okMark()
		switch c.Status {
		case doctor.SeverityError:
			mark = errMark()
		case doctor.SeverityInfo:
			mark = skipMark()
		}
		line := fmt.Sprintf("%s %s", mark, c.Name)
		if c.Path != "" {
			line += " (" + c.Path + ")"
		}
		fmt.Fprintln(w, line)
		for _, issue := range c.Issues {
			fmt.Fprintf(w, "   %s\n", issue)
		}
		for _, s := range c.Suggestions {
			fmt.Fprintf(w, "   %s\n", s)
		}
	}

	fmt.Fprintln(w)
	if report.Binary.OK {
		fmt.Fprintf(w, "%s gasoline binary: %s (%s)\n",
			okMark(), report.Binary.Path, report.Binary.Version)
	} else {
		fmt.Fprintf(w, "%s gasoline binary: %s\n", errMark(), report.Binary.Error)
	}

	for _, warning := range report.LegacyWarnings {
		fmt.Fprintf(w, "%s %s (%s)\n", skipMark(), warning.Message, warning.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, report.Summary)
}
