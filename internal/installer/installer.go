package installer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	"github.com/gasoline-dev/gasoline-mcp/internal/config"
	"github.com/gasoline-dev/gasoline-mcp/internal/configfile"
	cliErrors "github.com/gasoline-dev/gasoline-mcp/internal/errors"
)

// Options controls one orchestrator pass.
type Options struct {
	// DryRun computes and reports intended changes without touching disk
	// or invoking client tooling.
	DryRun bool

	// EnvVars is attached as the service entry's env field when non-empty.
	EnvVars map[string]string

	// FirstMatchOnly stops the pass after the first client that succeeds,
	// reproducing the legacy stop-at-first-match behavior. The default is
	// to attempt every client.
	FirstMatchOnly bool

	// Targets overrides the client set. When nil, all detected clients
	// are targeted.
	Targets []client.Definition

	// Platform overrides the platform key. Empty means the running system.
	Platform string

	// Runner overrides external command execution, injectable for tests.
	Runner Runner

	// CommandTimeout bounds each external client tool invocation.
	CommandTimeout time.Duration

	// Logger receives per-client progress. Nil uses slog.Default.
	Logger *slog.Logger
}

func (o *Options) platform() string {
	if o.Platform != "" {
		return o.Platform
	}
	return client.CurrentPlatform()
}

func (o *Options) runner() Runner {
	if o.Runner != nil {
		return o.Runner
	}
	return ExecRunner{}
}

func (o *Options) timeout() time.Duration {
	if o.CommandTimeout > 0 {
		return o.CommandTimeout
	}
	return config.DefaultCommandTimeout
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *Options) targets(reg *client.Registry) []client.Definition {
	if o.Targets != nil {
		return o.Targets
	}
	return reg.Detected(o.platform())
}

// Install registers the service entry with every targeted client.
//
// Each client is attempted regardless of earlier failures; a per-client
// failure becomes an error record in the batch result and never aborts
// siblings. Overall success means at least one client was installed.
func Install(ctx context.Context, reg *client.Registry, entry configfile.ServerEntry, opts Options) *BatchResult {
	batch := &BatchResult{}
	log := opts.logger()

	for _, def := range opts.targets(reg) {
		var res ClientResult
		switch def.Kind {
		case client.KindCLI:
			res = installCLI(ctx, def, entry, opts)
		case client.KindFile:
			res = installFile(def, entry, opts)
		}
		log.Debug("install attempted",
			"client", def.ID, "status", res.Status, "dry_run", opts.DryRun)
		batch.record(res)

		if opts.FirstMatchOnly && res.Status == StatusInstalled {
			break
		}
	}

	return batch
}

// installCLI registers the entry through the client's own tooling, feeding
// the JSON-serialized entry on standard input.
func installCLI(ctx context.Context, def client.Definition, entry configfile.ServerEntry, opts Options) ClientResult {
	res := ClientResult{
		ClientID:   def.ID,
		ClientName: def.Name,
		ViaCLI:     true,
		DryRun:     opts.DryRun,
	}

	if len(opts.EnvVars) > 0 {
		entry.Env = opts.EnvVars
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		res.Status = StatusError
		res.Err = errors.Wrap(err, "serializing server entry")
		return res
	}

	if opts.DryRun {
		res.Status = StatusInstalled
		res.Command = commandLine(def.CLI.DetectCommand, def.CLI.InstallArgs)
		return res
	}

	if _, err := opts.runner().Run(ctx, def.CLI.DetectCommand, def.CLI.InstallArgs, payload, opts.timeout(), nil); err != nil {
		res.Status = StatusError
		res.Err = err
		res.Recovery = "Ensure " + def.CLI.DetectCommand + " works, then rerun: gasoline-mcp install"
		return res
	}

	res.Status = StatusInstalled
	return res
}

// installFile merges the entry into the client's config file, starting
// from a fresh default document when the file is absent or unparseable.
func installFile(def client.Definition, entry configfile.ServerEntry, opts Options) ClientResult {
	res := ClientResult{
		ClientID:   def.ID,
		ClientName: def.Name,
		DryRun:     opts.DryRun,
	}

	path, ok := client.ConfigPath(def, opts.platform())
	if !ok {
		res.Status = StatusError
		res.Err = errors.Wrapf(cliErrors.ErrUnsupportedPlatform,
			"no config path for %s", opts.platform())
		return res
	}
	res.Path = path

	doc, isNew, err := readOrDefault(path)
	if err != nil {
		res.Status = StatusError
		res.Err = err
		res.Recovery = configfile.RecoveryFor(err)
		return res
	}
	res.IsNew = isNew

	merged := configfile.MergeEntry(doc, entry, opts.EnvVars)
	if _, err := configfile.Write(path, merged, opts.DryRun); err != nil {
		res.Status = StatusError
		res.Err = err
		res.Recovery = configfile.RecoveryFor(err)
		return res
	}

	res.Status = StatusInstalled
	return res
}

// readOrDefault loads an existing document or produces a fresh default.
// Malformed JSON is replaced by a default document rather than failing
// the client; an oversized file is not, since silently replacing it would
// destroy whatever it holds.
func readOrDefault(path string) (configfile.Document, bool, error) {
	read, err := configfile.Read(path)
	if err != nil {
		var invalid *configfile.InvalidJSONError
		if errors.As(err, &invalid) {
			return configfile.NewDocument(), false, nil
		}
		return nil, false, err
	}
	if !read.Valid {
		return configfile.NewDocument(), true, nil
	}
	return read.Data, false, nil
}
