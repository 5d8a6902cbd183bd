package configfile

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// MaxFileSize is the maximum config file size we'll read (1MB).
// This prevents memory exhaustion from corrupted or hostile files.
const MaxFileSize = 1024 * 1024

// ReadResult is the outcome of reading a config file.
//
// Ordinary absence and unreadable files yield Valid=false with Err set;
// they are expected states, not failures. Only the exceptional conditions
// (oversize, malformed JSON) surface as a returned error from Read.
type ReadResult struct {
	// Valid is true when Data holds a parsed document.
	Valid bool

	// Data is the parsed document, nil unless Valid.
	Data Document

	// Err describes why the file could not be read when !Valid.
	Err error

	// Size is the on-disk size in bytes when Valid.
	Size int64
}

// WriteResult is the outcome of writing a config file.
type WriteResult struct {
	// Written is false when dry-run short-circuited before any I/O.
	Written bool

	// Path is the destination path.
	Path string
}

// Read reads and parses a JSON config file.
//
// A missing file returns a failed ReadResult, not an error. A file over
// MaxFileSize returns *FileSizeError; a file that fails to parse returns
// *InvalidJSONError. Any other I/O failure returns a failed ReadResult
// carrying the OS error.
func Read(path string) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ReadResult{Err: errors.Newf("file not found: %s", path)}, nil
		}
		return ReadResult{Err: errors.Wrap(err, "opening config file")}, nil
	}
	defer f.Close()

	// Fail fast when stat already shows an oversized file.
	if info, statErr := f.Stat(); statErr == nil && info.Size() > MaxFileSize {
		return ReadResult{}, &FileSizeError{Path: path, Size: info.Size()}
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return ReadResult{Err: errors.Wrap(err, "reading config file")}, nil
	}
	if len(data) > MaxFileSize {
		return ReadResult{}, &FileSizeError{Path: path, Size: int64(len(data))}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ReadResult{}, &InvalidJSONError{Path: path, Err: err}
	}

	return ReadResult{Valid: true, Data: doc, Size: int64(len(data))}, nil
}

// Write persists a document as 2-space-indented JSON with a trailing
// newline, creating parent directories as needed. The document is written
// to a sibling temporary file and atomically renamed over the destination,
// so an interrupted write leaves the original file intact.
//
// When dryRun is true, Write performs no I/O at all and reports
// Written=false.
//
// Write and Remove are the only path-mutating operations in the engine;
// every persisted document goes through here.
func Write(path string, doc Document, dryRun bool) (WriteResult, error) {
	if dryRun {
		return WriteResult{Written: false, Path: path}, nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return WriteResult{}, &ConfigError{Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WriteResult{}, &ConfigError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".gasoline-*.tmp")
	if err != nil {
		return WriteResult{}, &ConfigError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		// Only removes the temp file if the rename never happened.
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return WriteResult{}, &ConfigError{Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return WriteResult{}, &ConfigError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return WriteResult{}, &ConfigError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return WriteResult{}, &ConfigError{Path: path, Err: err}
	}

	return WriteResult{Written: true, Path: path}, nil
}

// Remove deletes a config file, used when uninstall leaves an empty
// mcpServers shell. Respects dry-run; removing a file that does not exist
// is not an error.
func Remove(path string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}
