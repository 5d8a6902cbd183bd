// Package client defines the registry of supported AI assistant clients
// and resolves their per-platform configuration paths.
package client

// Kind distinguishes how a client is integrated with gasoline.
type Kind string

const (
	// KindCLI marks clients registered through their own command-line tool.
	KindCLI Kind = "cli"

	// KindFile marks clients configured by writing a JSON file.
	KindFile Kind = "file"
)

// Platform keys used in path template maps.
const (
	PlatformDarwin = "darwin"
	PlatformLinux  = "linux"
	PlatformWin32  = "win32"

	// PlatformAll is the wildcard key matching every platform.
	PlatformAll = "all"
)

// CLIIntegration holds the fields of a CLI-registered client.
type CLIIntegration struct {
	// DetectCommand is the executable probed on PATH to detect the client.
	DetectCommand string

	// InstallArgs are the arguments of the client's registration command.
	// The JSON-serialized server entry is fed on standard input.
	InstallArgs []string

	// RemoveArgs are the arguments of the client's removal command.
	RemoveArgs []string
}

// FileIntegration holds the fields of a file-configured client.
// Both maps are keyed by platform key (darwin, win32, linux, or all) and
// contain path templates with ~ and, on Windows, %APPDATA% tokens.
type FileIntegration struct {
	// ConfigPath maps platform keys to config file path templates.
	ConfigPath map[string]string

	// DetectDir maps platform keys to directories whose existence means
	// the client is installed.
	DetectDir map[string]string
}

// Definition describes one integration target.
//
// Exactly one of CLI or File is non-nil, matching Kind. Definitions are
// static process-wide data, read-only after process start.
type Definition struct {
	// ID is the stable unique slug for this client.
	ID string

	// Name is the human-readable display name.
	Name string

	// Kind selects the integration mechanism.
	Kind Kind

	CLI  *CLIIntegration
	File *FileIntegration
}

// LegacyPath is a configuration location used by a superseded version of
// this tool, checked only for orphaned leftover entries.
type LegacyPath struct {
	// Path is a template with the same ~ / %APPDATA% tokens as Definition
	// path templates.
	Path string

	// Description explains which old version used this location.
	Description string
}

// definitions is the static catalog of supported clients, in display order.
var definitions = []Definition{
	{
		ID:   "claude-code",
		Name: "Claude Code",
		Kind: KindCLI,
		CLI: &CLIIntegration{
			DetectCommand: "claude",
			InstallArgs:   []string{"mcp", "add-json", "--scope", "user", "gasoline"},
			RemoveArgs:    []string{"mcp", "remove", "--scope", "user", "gasoline"},
		},
	},
	{
		ID:   "claude-desktop",
		Name: "Claude Desktop",
		Kind: KindFile,
		File: &FileIntegration{
			ConfigPath: map[string]string{
				PlatformDarwin: "~/Library/Application Support/Claude/claude_desktop_config.json",
				PlatformWin32:  "%APPDATA%/Claude/claude_desktop_config.json",
			},
			DetectDir: map[string]string{
				PlatformDarwin: "~/Library/Application Support/Claude",
				PlatformWin32:  "%APPDATA%/Claude",
			},
		},
	},
	{
		ID:   "cursor",
		Name: "Cursor",
		Kind: KindFile,
		File: &FileIntegration{
			ConfigPath: map[string]string{PlatformAll: "~/.cursor/mcp.json"},
			DetectDir:  map[string]string{PlatformAll: "~/.cursor"},
		},
	},
	{
		ID:   "windsurf",
		Name: "Windsurf",
		Kind: KindFile,
		File: &FileIntegration{
			ConfigPath: map[string]string{PlatformAll: "~/.codeium/windsurf/mcp_config.json"},
			DetectDir:  map[string]string{PlatformAll: "~/.codeium/windsurf"},
		},
	},
	{
		ID:   "vscode",
		Name: "VS Code",
		Kind: KindFile,
		File: &FileIntegration{
			ConfigPath: map[string]string{
				PlatformDarwin: "~/Library/Application Support/Code/User/mcp.json",
				PlatformWin32:  "%APPDATA%/Code/User/mcp.json",
				PlatformLinux:  "~/.config/Code/User/mcp.json",
			},
			DetectDir: map[string]string{
				PlatformDarwin: "~/Library/Application Support/Code",
				PlatformWin32:  "%APPDATA%/Code",
				PlatformLinux:  "~/.config/Code",
			},
		},
	},
}

// legacyPaths are old config locations that may contain orphaned entries.
var legacyPaths = []LegacyPath{
	{Path: "~/.codeium/mcp.json", Description: "Old Windsurf/Codeium path"},
	{Path: "~/.vscode/claude.mcp.json", Description: "Old VS Code path"},
	{Path: "~/.claude.json", Description: "Old Claude Code path (now uses CLI)"},
}

// Registry is an immutable ordered catalog of client definitions.
type Registry struct {
	defs []Definition
}

// Default returns the registry of all supported clients.
func Default() *Registry {
	return &Registry{defs: definitions}
}

// NewRegistry builds a registry from an explicit definition list.
// Used by tests and by callers that restrict the target set.
func NewRegistry(defs []Definition) *Registry {
	return &Registry{defs: defs}
}

// Definitions returns the client definitions in display order.
// The returned slice must not be modified.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// ByID returns the definition with the given id.
func (r *Registry) ByID(id string) (Definition, bool) {
	for _, d := range r.defs {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Detected returns the definitions of clients installed on this system,
// preserving registry order.
func (r *Registry) Detected(platform string) []Definition {
	detected := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		if Installed(d, platform) {
			detected = append(detected, d)
		}
	}
	return detected
}

// LegacyPaths returns the known superseded config locations.
func LegacyPaths() []LegacyPath {
	return legacyPaths
}
