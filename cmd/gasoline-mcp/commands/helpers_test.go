package commands

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
	"github.com/gasoline-dev/gasoline-mcp/internal/installer"
)

func TestParseKeyValueSlice(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:    "nil entries",
			entries: nil,
			want:    nil,
		},
		{
			name:    "single entry",
			entries: []string{"DEBUG=1"},
			want:    map[string]string{"DEBUG": "1"},
		},
		{
			name:    "multiple entries",
			entries: []string{"DEBUG=1", "API_KEY=secret"},
			want:    map[string]string{"DEBUG": "1", "API_KEY": "secret"},
		},
		{
			name:    "equals in value",
			entries: []string{"KEY=a=b=c"},
			want:    map[string]string{"KEY": "a=b=c"},
		},
		{
			name:    "surrounding whitespace trimmed",
			entries: []string{" KEY = value "},
			want:    map[string]string{"KEY": "value"},
		},
		{
			name:    "missing equals",
			entries: []string{"KEYvalue"},
			wantErr: true,
		},
		{
			name:    "empty key",
			entries: []string{"=value"},
			wantErr: true,
		},
		{
			name:    "empty value",
			entries: []string{"KEY="},
			wantErr: true,
		},
		{
			name:    "whitespace-only value",
			entries: []string{"KEY=   "},
			wantErr: true,
		},
		{
			name:    "one invalid among valid",
			entries: []string{"OK=1", "broken"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeyValueSlice(tt.entries, "--env")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var exitErr *cliErrors.ExitError
				if !errors.As(err, &exitErr) || exitErr.Suggestion == "" {
					t.Errorf("parse errors must carry a suggestion: %v", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrintBatch(t *testing.T) {
	batch := &installer.BatchResult{
		Succeeded: []installer.ClientResult{
			{ClientName: "Cursor", Status: installer.StatusInstalled, Path: "/home/u/.cursor/mcp.json", IsNew: true},
			{ClientName: "Claude Code", Status: installer.StatusInstalled, ViaCLI: true},
		},
		Skipped: []installer.ClientResult{
			{ClientName: "VS Code", Status: installer.StatusNotConfigured},
		},
		Failed: []installer.ClientResult{
			{ClientName: "Windsurf", Status: installer.StatusError,
				Err: errors.New("permission denied"), Recovery: "Check permissions"},
		},
	}

	var buf bytes.Buffer
	printBatch(&buf, batch, "installed")
	output := buf.String()

	for _, want := range []string{
		"Cursor: installed (/home/u/.cursor/mcp.json)",
		"[new file]",
		"Claude Code: installed (via CLI)",
		"VS Code: not configured",
		"permission denied",
		"Check permissions",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestPrintBatchDryRun(t *testing.T) {
	batch := &installer.BatchResult{
		Succeeded: []installer.ClientResult{
			{ClientName: "Cursor", Status: installer.StatusInstalled, Path: "/p", DryRun: true},
			{ClientName: "Claude Code", Status: installer.StatusInstalled, ViaCLI: true,
				Command: "claude mcp add-json --scope user gasoline", DryRun: true},
		},
	}

	var buf bytes.Buffer
	printBatch(&buf, batch, "installed")
	output := buf.String()

	if !strings.Contains(output, "[dry-run]") {
		t.Errorf("dry-run marker missing:\n%s", output)
	}
	if !strings.Contains(output, "would run: claude mcp add-json --scope user gasoline") {
		t.Errorf("skipped CLI command line missing:\n%s", output)
	}
}

func TestResolveTargets(t *testing.T) {
	reg := client.Default()

	targets, err := resolveTargets(reg, nil)
	if err != nil || targets != nil {
		t.Fatalf("no ids must mean no restriction, got %v, %v", targets, err)
	}

	targets, err = resolveTargets(reg, []string{"cursor", "vscode"})
	if err != nil {
		t.Fatalf("resolveTargets: %v", err)
	}
	if len(targets) != 2 || targets[0].ID != "cursor" || targets[1].ID != "vscode" {
		t.Errorf("targets = %v", targets)
	}

	_, err = resolveTargets(reg, []string{"cursor", "emacs"})
	if !errors.Is(err, cliErrors.ErrUnknownClient) {
		t.Fatalf("unknown id must yield ErrUnknownClient, got %v", err)
	}
	var exitErr *cliErrors.ExitError
	if !errors.As(err, &exitErr) || !strings.Contains(exitErr.Suggestion, "cursor") {
		t.Errorf("suggestion must list known client ids: %v", err)
	}
}

func TestBatchError(t *testing.T) {
	ok := &installer.BatchResult{Succeeded: []installer.ClientResult{{}}}
	if err := batchError(ok, "installed"); err != nil {
		t.Errorf("successful batch must not error: %v", err)
	}

	failed := &installer.BatchResult{Failed: []installer.ClientResult{{}, {}}}
	err := batchError(failed, "installed")
	if err == nil {
		t.Fatal("all-failed batch must error")
	}
	if !strings.Contains(err.Error(), "2 failed") {
		t.Errorf("err = %v", err)
	}
}

func TestCommandWiring(t *testing.T) {
	for _, name := range []string{"install", "uninstall", "doctor"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}

	if installCmd.Flags().Lookup("dry-run") == nil {
		t.Error("install --dry-run flag missing")
	}
	if installCmd.Flags().Lookup("env") == nil {
		t.Error("install --env flag missing")
	}
	if installCmd.Flags().Lookup("client") == nil {
		t.Error("install --client flag missing")
	}
	if uninstallCmd.Flags().Lookup("dry-run") == nil {
		t.Error("uninstall --dry-run flag missing")
	}
	if uninstallCmd.Flags().Lookup("client") == nil {
		t.Error("uninstall --client flag missing")
	}
	if doctorCmd.Flags().Lookup("output") == nil {
		t.Error("doctor --output flag missing")
	}
}
