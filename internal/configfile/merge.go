package configfile

import "encoding/json"

// ServiceName is the reserved key under mcpServers fully owned by this
// engine. The entry is overwritten wholesale on install; other keys are
// never touched.
const ServiceName = "gasoline"

// serversKey is the top-level mapping holding server entries.
const serversKey = "mcpServers"

// Document is a parsed client configuration. Arbitrary top-level keys are
// preserved verbatim; the engine only owns the gasoline entry under
// mcpServers.
type Document = map[string]any

// ServerEntry is the fixed-shape object registered under ServiceName.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// NewDocument returns a fresh default document containing only an empty
// mcpServers mapping, the starting point when a client has no config yet.
func NewDocument() Document {
	return Document{serversKey: map[string]any{}}
}

// MergeEntry returns a copy of doc with the gasoline entry set to entry.
// The input document is never mutated. mcpServers is created when absent,
// and env is attached only when non-empty.
func MergeEntry(doc Document, entry ServerEntry, env map[string]string) Document {
	merged := deepCopy(doc)
	if merged == nil {
		merged = Document{}
	}

	servers, ok := merged[serversKey].(map[string]any)
	if !ok {
		servers = map[string]any{}
		merged[serversKey] = servers
	}

	e := map[string]any{
		"command": entry.Command,
		"args":    stringsToAny(entry.Args),
	}
	if len(env) == 0 {
		env = entry.Env
	}
	if len(env) > 0 {
		e["env"] = stringMapToAny(env)
	}
	servers[ServiceName] = e

	return merged
}

// RemoveEntry returns a copy of doc with the gasoline entry deleted and
// reports whether it was present. The input document is never mutated.
// When the resulting mcpServers is empty the caller is expected to delete
// the file instead of persisting an emptied shell.
func RemoveEntry(doc Document) (Document, bool) {
	out := deepCopy(doc)
	if out == nil {
		return Document{}, false
	}
	servers, ok := out[serversKey].(map[string]any)
	if !ok {
		return out, false
	}
	if _, present := servers[ServiceName]; !present {
		return out, false
	}
	delete(servers, ServiceName)
	return out, true
}

// HasEntry reports whether doc carries the gasoline entry under a
// well-formed mcpServers mapping.
func HasEntry(doc Document) bool {
	servers, ok := doc[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, present := servers[ServiceName]
	return present
}

// ServerCount returns the number of entries under mcpServers, 0 when the
// mapping is absent or malformed.
func ServerCount(doc Document) int {
	servers, ok := doc[serversKey].(map[string]any)
	if !ok {
		return 0
	}
	return len(servers)
}

// Validate performs advisory structural validation: the document must be
// an object and mcpServers, if present, must be an object. An empty slice
// signals validity. Install does not gate on this because it must also
// succeed against documents it creates from scratch.
func Validate(doc Document) []string {
	var errs []string
	if doc == nil {
		return []string{"config must be an object"}
	}
	if raw, present := doc[serversKey]; present {
		if _, ok := raw.(map[string]any); !ok {
			errs = append(errs, "mcpServers must be an object")
		}
	}
	return errs
}

// deepCopy clones a document by JSON round-trip. Documents come from JSON
// in the first place, so the round-trip is exact.
func deepCopy(doc Document) Document {
	if doc == nil {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		// Documents are built from json.Unmarshal output or literals of
		// the same shape; marshaling them cannot fail.
		panic(err)
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func stringMapToAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
