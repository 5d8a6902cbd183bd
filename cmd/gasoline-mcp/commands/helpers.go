package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
	"github.com/gasoline-dev/gasoline-mcp/internal/installer"
)

// Result markers. color.Sprint degrades to plain text when the output is
// not a terminal or NO_COLOR is set.
func okMark() string   { return color.GreenString("✓") }
func errMark() string  { return color.RedString("✗") }
func skipMark() string { return color.YellowString("–") }

// parseKeyValueSlice parses repeated KEY=VALUE flag values into a map.
// flagName appears in error messages (e.g. "--env").
func parseKeyValueSlice(entries []string, flagName string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, cliErrors.NewUserError(
				fmt.Errorf("invalid %s format %q", flagName, entry),
				fmt.Sprintf("Expected KEY=VALUE, e.g. %s DEBUG=1", flagName))
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return nil, cliErrors.NewUserError(
				fmt.Errorf("invalid %s format %q: missing key", flagName, entry),
				"Format: KEY=VALUE (key cannot be empty)")
		}
		if value == "" {
			return nil, cliErrors.NewUserError(
				fmt.Errorf("invalid %s format %q: missing value", flagName, entry),
				"Format: KEY=VALUE (value cannot be empty)")
		}
		out[key] = value
	}
	return out, nil
}

// resolveTargets maps --client ids to registry definitions, in the given
// order. An empty id list means no restriction (nil targets).
func resolveTargets(reg *client.Registry, ids []string) ([]client.Definition, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	targets := make([]client.Definition, 0, len(ids))
	for _, id := range ids {
		def, ok := reg.ByID(id)
		if !ok {
			return nil, cliErrors.NewUserError(
				errors.Wrapf(cliErrors.ErrUnknownClient, "%q", id),
				"Known clients: "+strings.Join(knownClientIDs(reg), ", "))
		}
		targets = append(targets, def)
	}
	return targets, nil
}

func knownClientIDs(reg *client.Registry) []string {
	defs := reg.Definitions()
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	return ids
}

// printBatch renders a batch result, one line per client.
func printBatch(w io.Writer, batch *installer.BatchResult, verb string) {
	for _, r := range batch.Succeeded {
		target := r.Path
		if r.ViaCLI {
			target = "via CLI"
			if r.Command != "" {
				target = "would run: " + r.Command
			}
		}
		line := fmt.Sprintf("%s %s: %s (%s)", okMark(), r.ClientName, verb, target)
		if r.IsNew {
			line += " [new file]"
		}
		if r.DryRun {
			line += " [dry-run]"
		}
		fmt.Fprintln(w, line)
	}
	for _, r := range batch.Skipped {
		fmt.Fprintf(w, "%s %s: not configured\n", skipMark(), r.ClientName)
	}
	for _, r := range batch.Failed {
		fmt.Fprintf(w, "%s %s: %v\n", errMark(), r.ClientName, r.Err)
		if r.Recovery != "" {
			fmt.Fprintf(w, "   %s\n", r.Recovery)
		}
	}
}

// batchError converts a failed batch into a CLI error. A batch fails only
// when no client at all succeeded.
func batchError(batch *installer.BatchResult, verb string) error {
	if batch.Success() {
		return nil
	}
	if len(batch.Failed) == 0 {
		return cliErrors.NewUserError(
			fmt.Errorf("no clients were %s", verb),
			"Run: gasoline-mcp doctor")
	}
	return cliErrors.NewUserError(
		fmt.Errorf("no clients were %s (%d failed)", verb, len(batch.Failed)),
		"Run: gasoline-mcp doctor")
}
