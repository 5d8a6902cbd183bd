package configfile

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Recoverable is implemented by errors that carry a human recovery
// suggestion distinct from the machine message. Callers render the two
// separately.
type Recoverable interface {
	error
	Recovery() string
}

// FileSizeError reports a config file over the read-size ceiling.
// An oversized config indicates corruption or a hostile file, not ordinary
// absence, so this surfaces as an error rather than a failed ReadResult.
type FileSizeError struct {
	Path string
	Size int64
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("file %s is too large (%d bytes, max 1MB)", e.Path, e.Size)
}

// Recovery returns the operator-facing recovery suggestion.
func (e *FileSizeError) Recovery() string {
	return "The config file is too large. Reduce its size or delete it and reinstall."
}

// InvalidJSONError reports a config file that exists but fails to parse.
type InvalidJSONError struct {
	Path string
	Err  error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
}

// Recovery returns the operator-facing recovery suggestion.
func (e *InvalidJSONError) Recovery() string {
	return fmt.Sprintf("Fix options: manually edit %s, restore from backup and rerun install, or run: gasoline-mcp doctor", e.Path)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// ConfigError wraps an I/O failure while persisting a config file.
// Raw filesystem errors never escape the store uncaught.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Recovery returns the operator-facing recovery suggestion.
func (e *ConfigError) Recovery() string {
	return "Check directory permissions and free disk space, then retry."
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// RecoveryFor extracts the recovery suggestion from anywhere in err's
// chain. Returns "" when no error in the chain carries one.
func RecoveryFor(err error) string {
	var r Recoverable
	if errors.As(err, &r) {
		return r.Recovery()
	}
	return ""
}
