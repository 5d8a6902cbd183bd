package installer

// Status classifies a per-client outcome.
type Status string

const (
	// StatusInstalled means the service entry was written (or would be,
	// under dry-run).
	StatusInstalled Status = "installed"

	// StatusRemoved means the service entry was removed (or would be,
	// under dry-run).
	StatusRemoved Status = "removed"

	// StatusNotConfigured means there was no service entry to remove.
	StatusNotConfigured Status = "not-configured"

	// StatusError means the per-client operation failed.
	StatusError Status = "error"
)

// ClientResult is the outcome of one client's install or uninstall.
// Created fresh per orchestrator invocation, never persisted.
type ClientResult struct {
	// ClientID and ClientName identify the client.
	ClientID   string
	ClientName string

	// Status classifies the outcome.
	Status Status

	// Path is the config file acted on, empty for CLI-registered clients.
	Path string

	// ViaCLI is true when the client was reached through its own
	// registration tool rather than a config file.
	ViaCLI bool

	// Command is the client tool command line that would run, populated
	// for CLI-registered clients under dry-run so the skipped invocation
	// can be reported.
	Command string

	// IsNew is true when install created the config file.
	IsNew bool

	// DryRun is true when the reported action was not performed.
	DryRun bool

	// Err holds the failure when Status is StatusError.
	Err error

	// Recovery is an optional recovery suggestion for Err, kept separate
	// so callers can render the two differently.
	Recovery string
}

// BatchResult aggregates per-client outcomes of one orchestrator pass.
type BatchResult struct {
	// Succeeded lists clients that were installed or removed.
	Succeeded []ClientResult

	// Skipped lists clients that needed no change (not configured).
	Skipped []ClientResult

	// Failed lists clients whose operation errored.
	Failed []ClientResult
}

// Success reports overall success: at least one client succeeded.
func (b *BatchResult) Success() bool {
	return len(b.Succeeded) > 0
}

func (b *BatchResult) record(r ClientResult) {
	switch r.Status {
	case StatusError:
		b.Failed = append(b.Failed, r)
	case StatusNotConfigured:
		b.Skipped = append(b.Skipped, r)
	default:
		b.Succeeded = append(b.Succeeded, r)
	}
}
