// Package configfile reads, merges, and atomically writes the JSON
// configuration documents of file-type clients.
//
// Read is size-bounded (1 MiB) and fails closed: ordinary absence is a
// failed [ReadResult], while oversize and malformed JSON surface as the
// typed errors [FileSizeError] and [InvalidJSONError], each carrying a
// recovery suggestion separate from the machine message.
//
// [Write] is the engine's only path-mutating primitive (besides [Remove]
// for empty shells): it serializes 2-space-indented JSON with a trailing
// newline to a sibling temp file and renames it into place, so interrupted
// writes never leave a partially written config.
//
// [MergeEntry] and [RemoveEntry] are pure functions over [Document]; they
// deep-copy their input and only ever touch the gasoline key under
// mcpServers. Merge followed by Write is idempotent: a second identical
// install produces a byte-identical file.
package configfile
