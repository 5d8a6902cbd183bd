package doctor

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gasoline-dev/gasoline-mcp/internal/binary"
	"github.com/gasoline-dev/gasoline-mcp/internal/client"
	"github.com/gasoline-dev/gasoline-mcp/internal/config"
	"github.com/gasoline-dev/gasoline-mcp/internal/configfile"
	"github.com/gasoline-dev/gasoline-mcp/internal/installer"
)

// Options controls one doctor run.
type Options struct {
	// Platform overrides the platform key. Empty means the running system.
	Platform string

	// Runner overrides external command execution for the CLI probe.
	Runner installer.Runner

	// ProbeTimeout bounds each read-only CLI probe.
	ProbeTimeout time.Duration

	// BinaryPath overrides discovery of the gasoline server binary.
	BinaryPath string

	// Logger receives per-client progress. Nil uses slog.Default.
	Logger *slog.Logger
}

func (o *Options) platform() string {
	if o.Platform != "" {
		return o.Platform
	}
	return client.CurrentPlatform()
}

func (o *Options) runner() installer.Runner {
	if o.Runner != nil {
		return o.Runner
	}
	return installer.ExecRunner{}
}

func (o *Options) probeTimeout() time.Duration {
	if o.ProbeTimeout > 0 {
		return o.ProbeTimeout
	}
	return config.DefaultProbeTimeout
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Run diagnoses every client in the registry, probes the server binary,
// and scans legacy paths for orphaned entries. It calls only read
// operations; nothing on disk changes.
func Run(ctx context.Context, reg *client.Registry, opts Options) *Report {
	report := &Report{}

	log := opts.logger()
	for _, path := range client.FileConfigPaths(opts.platform()) {
		log.Debug("config candidate",
			"client", client.ClientForPath(path, opts.platform()), "path", path)
	}

	for _, def := range reg.Definitions() {
		var status ClientStatus
		switch def.Kind {
		case client.KindCLI:
			status = diagnoseCLI(ctx, def, opts)
		case client.KindFile:
			status = diagnoseFile(def, opts)
		}
		report.Clients = append(report.Clients, status)
	}

	report.Binary = binary.Check(ctx, opts.BinaryPath)
	report.LegacyWarnings = scanLegacy(opts.platform())
	report.Summary = buildSummary(report.Clients)

	return report
}

// diagnoseFile checks a file-type client: detection, path availability,
// file presence, parseability, and entry presence.
func diagnoseFile(def client.Definition, opts Options) ClientStatus {
	path, hasPath := client.ConfigPath(def, opts.platform())
	status := ClientStatus{
		ID:       def.ID,
		Name:     def.Name,
		Kind:     def.Kind,
		Detected: client.Installed(def, opts.platform()),
		Path:     path,
	}

	opts.logger().Debug("checking client", "client", def.ID, "path", path)

	if !status.Detected {
		status.Status = SeverityInfo
		status.Issues = append(status.Issues, "Not installed on this system")
		return status
	}
	if !hasPath {
		status.Status = SeverityInfo
		status.Issues = append(status.Issues, "No config path for this platform")
		return status
	}
	if _, err := os.Stat(path); err != nil {
		status.Status = SeverityError
		status.Issues = append(status.Issues, "Config file not found")
		status.Suggestions = append(status.Suggestions, "Run: gasoline-mcp install")
		return status
	}

	read, err := configfile.Read(path)
	if err != nil || !read.Valid {
		status.Status = SeverityError
		status.Issues = append(status.Issues, "Invalid JSON")
		status.Suggestions = append(status.Suggestions,
			"Fix the JSON syntax or run: gasoline-mcp install")
		return status
	}
	if errs := configfile.Validate(read.Data); len(errs) > 0 {
		status.Status = SeverityError
		status.Issues = append(status.Issues, errs...)
		status.Suggestions = append(status.Suggestions, "Run: gasoline-mcp install")
		return status
	}
	if !configfile.HasEntry(read.Data) {
		status.Status = SeverityError
		status.Issues = append(status.Issues, "gasoline entry missing from mcpServers")
		status.Suggestions = append(status.Suggestions, "Run: gasoline-mcp install")
		return status
	}

	status.Status = SeverityOK
	return status
}

// diagnoseCLI checks a CLI-type client by asking the client's own tooling
// whether the gasoline server is configured. The probe is read-only.
func diagnoseCLI(ctx context.Context, def client.Definition, opts Options) ClientStatus {
	status := ClientStatus{
		ID:       def.ID,
		Name:     def.Name,
		Kind:     def.Kind,
		Detected: client.Installed(def, opts.platform()),
	}

	opts.logger().Debug("checking client", "client", def.ID, "command", def.CLI.DetectCommand)

	if !status.Detected {
		status.Status = SeverityInfo
		status.Issues = append(status.Issues,
			def.CLI.DetectCommand+" CLI not found on PATH")
		return status
	}

	// CLAUDECODE is scrubbed so a probe launched from inside the client's
	// own session behaves like a plain invocation.
	_, err := opts.runner().Run(ctx, def.CLI.DetectCommand,
		[]string{"mcp", "get", configfile.ServiceName},
		nil, opts.probeTimeout(), []string{"CLAUDECODE"})
	if err != nil {
		status.Status = SeverityError
		status.Issues = append(status.Issues, "gasoline not configured")
		status.Suggestions = append(status.Suggestions, "Run: gasoline-mcp install")
		return status
	}

	status.Status = SeverityOK
	return status
}

// scanLegacy flags superseded config paths that still contain the service
// entry. Read errors during the scan are swallowed; an unreadable legacy
// file is not worth failing a diagnosis over.
func scanLegacy(platform string) []LegacyWarning {
	var warnings []LegacyWarning
	for _, legacy := range client.LegacyPaths() {
		path := client.ExpandPath(legacy.Path, platform)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		read, err := configfile.Read(path)
		if err != nil || !read.Valid || !configfile.HasEntry(read.Data) {
			continue
		}
		warnings = append(warnings, LegacyWarning{
			Path:        path,
			Description: legacy.Description,
			Message:     "Orphaned gasoline config at old path: " + path,
		})
	}
	return warnings
}
