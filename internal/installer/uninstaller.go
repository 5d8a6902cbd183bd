package installer

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	"github.com/gasoline-dev/gasoline-mcp/internal/configfile"
)

// Uninstall removes the service entry from every targeted client,
// mirroring Install: per-client failures isolate, and overall success
// means at least one client had the entry removed.
func Uninstall(ctx context.Context, reg *client.Registry, opts Options) *BatchResult {
	batch := &BatchResult{}
	log := opts.logger()

	for _, def := range opts.targets(reg) {
		var res ClientResult
		switch def.Kind {
		case client.KindCLI:
			res = uninstallCLI(ctx, def, opts)
		case client.KindFile:
			res = uninstallFile(def, opts)
		}
		log.Debug("uninstall attempted",
			"client", def.ID, "status", res.Status, "dry_run", opts.DryRun)
		batch.record(res)

		if opts.FirstMatchOnly && res.Status == StatusRemoved {
			break
		}
	}

	return batch
}

// uninstallCLI invokes the client's removal command. A "not found" style
// complaint from the tool is the soft not-configured case, not an error.
func uninstallCLI(ctx context.Context, def client.Definition, opts Options) ClientResult {
	res := ClientResult{
		ClientID:   def.ID,
		ClientName: def.Name,
		ViaCLI:     true,
		DryRun:     opts.DryRun,
	}

	if opts.DryRun {
		res.Status = StatusRemoved
		res.Command = commandLine(def.CLI.DetectCommand, def.CLI.RemoveArgs)
		return res
	}

	if _, err := opts.runner().Run(ctx, def.CLI.DetectCommand, def.CLI.RemoveArgs, nil, opts.timeout(), nil); err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && isNotFoundStderr(cmdErr.Stderr) {
			res.Status = StatusNotConfigured
			return res
		}
		res.Status = StatusError
		res.Err = err
		res.Recovery = "Ensure " + def.CLI.DetectCommand + " works, then rerun: gasoline-mcp uninstall"
		return res
	}

	res.Status = StatusRemoved
	return res
}

// uninstallFile removes the entry from the client's config file, deleting
// the file entirely when no other server entries remain.
func uninstallFile(def client.Definition, opts Options) ClientResult {
	res := ClientResult{
		ClientID:   def.ID,
		ClientName: def.Name,
		DryRun:     opts.DryRun,
	}

	path, ok := client.ConfigPath(def, opts.platform())
	if !ok {
		res.Status = StatusNotConfigured
		return res
	}
	res.Path = path

	read, err := configfile.Read(path)
	if err != nil {
		res.Status = StatusError
		res.Err = err
		res.Recovery = configfile.RecoveryFor(err)
		return res
	}
	if !read.Valid || !configfile.HasEntry(read.Data) {
		res.Status = StatusNotConfigured
		return res
	}

	reduced, _ := configfile.RemoveEntry(read.Data)
	if configfile.ServerCount(reduced) == 0 {
		// Deleting the file avoids leaving a degenerate {"mcpServers": {}}
		// shell on disk.
		if err := configfile.Remove(path, opts.DryRun); err != nil {
			res.Status = StatusError
			res.Err = err
			res.Recovery = configfile.RecoveryFor(err)
			return res
		}
	} else {
		if _, err := configfile.Write(path, reduced, opts.DryRun); err != nil {
			res.Status = StatusError
			res.Err = err
			res.Recovery = configfile.RecoveryFor(err)
			return res
		}
	}

	res.Status = StatusRemoved
	return res
}

// isNotFoundStderr recognizes "there was nothing to remove" complaints
// from client tooling.
func isNotFoundStderr(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "not found") || strings.Contains(s, "no mcp server")
}
