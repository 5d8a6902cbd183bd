package installer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	"github.com/gasoline-dev/gasoline-mcp/internal/configfile"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
	"github.com/gasoline-dev/gasoline-mcp/internal/logging"
)

// runCall records one external command invocation seen by the fake runner.
type runCall struct {
	name  string
	args  []string
	stdin []byte
}

// fakeRunner stands in for external client tooling.
type fakeRunner struct {
	calls []runCall
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, stdin []byte, _ time.Duration, _ []string) (RunResult, error) {
	f.calls = append(f.calls, runCall{name: name, args: args, stdin: stdin})
	if f.err != nil {
		return RunResult{}, f.err
	}
	return RunResult{}, nil
}

// fileDef builds a file-type definition whose config lives at path.
func fileDef(id, path string) client.Definition {
	return client.Definition{
		ID:   id,
		Name: id,
		Kind: client.KindFile,
		File: &client.FileIntegration{
			ConfigPath: map[string]string{client.PlatformAll: path},
			DetectDir:  map[string]string{client.PlatformAll: filepath.Dir(path)},
		},
	}
}

// cliDef builds a CLI-type definition using cmd as its tool.
func cliDef(id, cmd string) client.Definition {
	return client.Definition{
		ID:   id,
		Name: id,
		Kind: client.KindCLI,
		CLI: &client.CLIIntegration{
			DetectCommand: cmd,
			InstallArgs:   []string{"mcp", "add-json", "gasoline"},
			RemoveArgs:    []string{"mcp", "remove", "gasoline"},
		},
	}
}

func testOpts(t *testing.T, targets []client.Definition, runner Runner) Options {
	t.Helper()
	return Options{
		Targets:  targets,
		Platform: client.PlatformLinux,
		Runner:   runner,
		Logger:   logging.ForTest(t),
	}
}

func entry() configfile.ServerEntry {
	return configfile.ServerEntry{Command: "/usr/local/bin/gasoline", Args: []string{}}
}

func TestInstallFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	reg := client.Default()
	opts := testOpts(t, []client.Definition{fileDef("cursor", path)}, &fakeRunner{})

	batch := Install(context.Background(), reg, entry(), opts)

	require.True(t, batch.Success())
	require.Len(t, batch.Succeeded, 1)
	res := batch.Succeeded[0]
	assert.Equal(t, StatusInstalled, res.Status)
	assert.True(t, res.IsNew, "absent file means a new install")
	assert.Equal(t, path, res.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc configfile.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.True(t, configfile.HasEntry(doc))
}

func TestInstallMergesIntoExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	existing := `{"mcpServers":{"other":{"command":"x"}}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	opts := testOpts(t, []client.Definition{fileDef("cursor", path)}, &fakeRunner{})
	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.True(t, batch.Success())
	assert.False(t, batch.Succeeded[0].IsNew)

	read, err := configfile.Read(path)
	require.NoError(t, err)
	require.True(t, read.Valid)
	servers := read.Data["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other")
	assert.Contains(t, servers, configfile.ServiceName)
}

func TestInstallReplacesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	opts := testOpts(t, []client.Definition{fileDef("cursor", path)}, &fakeRunner{})
	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.True(t, batch.Success())
	res := batch.Succeeded[0]
	assert.False(t, res.IsNew, "the file existed, even if unparseable")

	read, err := configfile.Read(path)
	require.NoError(t, err)
	require.True(t, read.Valid)
	assert.True(t, configfile.HasEntry(read.Data))
}

func TestInstallNoPathForPlatform(t *testing.T) {
	def := client.Definition{
		ID:   "darwin-only",
		Name: "darwin-only",
		Kind: client.KindFile,
		File: &client.FileIntegration{
			ConfigPath: map[string]string{client.PlatformDarwin: "~/x.json"},
			DetectDir:  map[string]string{client.PlatformDarwin: "~"},
		},
	}

	opts := testOpts(t, []client.Definition{def}, &fakeRunner{})
	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.False(t, batch.Success())
	require.Len(t, batch.Failed, 1)
	assert.Contains(t, batch.Failed[0].Err.Error(), "no config path")
	assert.ErrorIs(t, batch.Failed[0].Err, cliErrors.ErrUnsupportedPlatform)
}

func TestInstallDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "mcp.json")
	runner := &fakeRunner{}

	opts := testOpts(t, []client.Definition{
		fileDef("cursor", path),
		cliDef("claude-code", "claude"),
	}, runner)
	opts.DryRun = true

	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.True(t, batch.Success())
	require.Len(t, batch.Succeeded, 2)
	for _, res := range batch.Succeeded {
		assert.True(t, res.DryRun)
		if res.ViaCLI {
			assert.Equal(t, "claude mcp add-json gasoline", res.Command,
				"a skipped CLI invocation must report its command line")
		} else {
			assert.Empty(t, res.Command)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "sub")); !os.IsNotExist(err) {
		t.Error("dry-run must not create directories")
	}
	assert.Empty(t, runner.calls, "dry-run must not launch external tools")
}

func TestInstallCLIFeedsEntryOnStdin(t *testing.T) {
	runner := &fakeRunner{}
	opts := testOpts(t, []client.Definition{cliDef("claude-code", "claude")}, runner)
	opts.EnvVars = map[string]string{"DEBUG": "1"}

	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.True(t, batch.Success())
	assert.True(t, batch.Succeeded[0].ViaCLI)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "claude", call.name)
	assert.Equal(t, []string{"mcp", "add-json", "gasoline"}, call.args)

	var payload configfile.ServerEntry
	require.NoError(t, json.Unmarshal(call.stdin, &payload))
	assert.Equal(t, "/usr/local/bin/gasoline", payload.Command)
	assert.Equal(t, map[string]string{"DEBUG": "1"}, payload.Env)
}

func TestInstallCLIFailureIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	runner := &fakeRunner{err: &CommandError{Command: "claude", ExitCode: 1, Stderr: "boom"}}

	opts := testOpts(t, []client.Definition{
		cliDef("claude-code", "claude"),
		fileDef("cursor", path),
	}, runner)

	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.Len(t, batch.Failed, 1)
	require.Len(t, batch.Succeeded, 1)
	assert.True(t, batch.Success(), "one success means overall success")
	assert.Equal(t, "claude-code", batch.Failed[0].ClientID)
	assert.NotEmpty(t, batch.Failed[0].Recovery)
}

// Given N clients where one has an unwritable destination, the batch holds
// exactly one error entry and successes for all others.
func TestInstallPartialFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "a", "mcp.json")
	good2 := filepath.Join(dir, "b", "mcp.json")

	// A regular file where client c needs a directory.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	bad := filepath.Join(blocker, "mcp.json")

	opts := testOpts(t, []client.Definition{
		fileDef("a", good1),
		fileDef("c", bad),
		fileDef("b", good2),
	}, &fakeRunner{})

	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.Len(t, batch.Failed, 1)
	assert.Equal(t, "c", batch.Failed[0].ClientID)
	require.Len(t, batch.Succeeded, 2)
	for _, p := range []string{good1, good2} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("sibling %s should have been written: %v", p, err)
		}
	}
}

func TestInstallFirstMatchStopsEarly(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	opts := testOpts(t, []client.Definition{
		fileDef("one", first),
		fileDef("two", second),
	}, &fakeRunner{})
	opts.FirstMatchOnly = true

	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.Len(t, batch.Succeeded, 1)
	assert.Equal(t, "one", batch.Succeeded[0].ClientID)
	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Error("first-match mode must not touch later clients")
	}
}

func TestInstallOversizeFileFailsClient(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.json")
	big := append([]byte(`{"pad":"`), make([]byte, configfile.MaxFileSize)...)
	big = append(big, []byte(`"}`)...)
	require.NoError(t, os.WriteFile(path, big, 0o644))

	opts := testOpts(t, []client.Definition{fileDef("cursor", path)}, &fakeRunner{})
	batch := Install(context.Background(), client.Default(), entry(), opts)

	require.Len(t, batch.Failed, 1)
	var sizeErr *configfile.FileSizeError
	assert.ErrorAs(t, batch.Failed[0].Err, &sizeErr)
	assert.NotEmpty(t, batch.Failed[0].Recovery)
}
