// Package doctor re-derives per-client configuration health without
// mutating anything.
package doctor

import (
	"fmt"

	"github.com/gasoline-dev/gasoline-mcp/internal/binary"
	"github.com/gasoline-dev/gasoline-mcp/internal/client"
)

// Severity indicates the health level of a client diagnosis.
type Severity int

const (
	// SeverityOK indicates the client is configured and healthy.
	SeverityOK Severity = iota

	// SeverityInfo indicates informational output, not a problem
	// (typically a client that is not installed on this system).
	SeverityInfo

	// SeverityError indicates the client needs repair.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityInfo:
		return "info"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so severities render as
// their names in JSON and YAML reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ClientStatus is the diagnosis of a single client.
type ClientStatus struct {
	// ID and Name identify the client.
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Kind is the integration mechanism (cli or file).
	Kind client.Kind `json:"kind" yaml:"kind"`

	// Detected reports whether the client is installed on this system.
	Detected bool `json:"detected" yaml:"detected"`

	// Path is the resolved config file path for file-type clients.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Status is the overall health of this client's configuration.
	Status Severity `json:"status" yaml:"status"`

	// Issues describe what is wrong; Suggestions how to fix it.
	Issues      []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// LegacyWarning flags an orphaned service entry at a superseded path.
type LegacyWarning struct {
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
	Message     string `json:"message" yaml:"message"`
}

// Report is the full diagnostic output of one doctor invocation.
// Purely derived, created fresh per run, no side effects.
type Report struct {
	Clients        []ClientStatus  `json:"clients" yaml:"clients"`
	Binary         binary.Health   `json:"binary" yaml:"binary"`
	LegacyWarnings []LegacyWarning `json:"legacyWarnings,omitempty" yaml:"legacyWarnings,omitempty"`
	Summary        string          `json:"summary" yaml:"summary"`
}

// buildSummary renders the one-line human summary counting client states.
func buildSummary(clients []ClientStatus) string {
	var ok, errs, info int
	for _, c := range clients {
		switch c.Status {
		case SeverityOK:
			ok++
		case SeverityError:
			errs++
		case SeverityInfo:
			info++
		}
	}

	summary := fmt.Sprintf("Summary: %d client%s ready", ok, plural(ok))
	if errs > 0 {
		needs := "need"
		if errs == 1 {
			needs = "needs"
		}
		summary += fmt.Sprintf(", %d %s repair", errs, needs)
	}
	if info > 0 {
		summary += fmt.Sprintf(", %d not detected", info)
	}
	return summary
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
