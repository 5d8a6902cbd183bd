package client

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// PlatformKey maps an operating system identifier to the platform key used
// in path template maps: darwin stays darwin, any linux* prefix collapses
// to linux, windows becomes win32, anything else passes through verbatim.
//
// It is a pure function of its argument so tests can inject platforms.
func PlatformKey(goos string) string {
	switch {
	case goos == "darwin":
		return PlatformDarwin
	case strings.HasPrefix(goos, "linux"):
		return PlatformLinux
	case goos == "windows" || goos == "win32":
		return PlatformWin32
	default:
		return goos
	}
}

// CurrentPlatform returns the platform key for the running system.
func CurrentPlatform() string {
	return PlatformKey(runtime.GOOS)
}

// ExpandPath expands ~ and, on win32, %APPDATA% in a path template and
// cleans the result. An unset APPDATA substitutes the empty string.
// Empty input stays empty.
func ExpandPath(template, platform string) string {
	if template == "" {
		return ""
	}
	expanded := template
	if expanded == "~" {
		expanded = homeDir()
	} else if strings.HasPrefix(expanded, "~/") {
		expanded = filepath.Join(homeDir(), expanded[2:])
	}
	if platform == PlatformWin32 && strings.Contains(expanded, "%APPDATA%") {
		expanded = strings.ReplaceAll(expanded, "%APPDATA%", os.Getenv("APPDATA"))
	}
	return filepath.Clean(expanded)
}

// ConfigPath resolves the config file path of a definition for the given
// platform key, falling back to the all wildcard. Returns ok=false for
// CLI-type definitions and for platforms with no template. Never errors.
func ConfigPath(def Definition, platform string) (string, bool) {
	if def.Kind != KindFile || def.File == nil {
		return "", false
	}
	return resolveTemplate(def.File.ConfigPath, platform)
}

// DetectDir resolves the installation probe directory of a definition,
// with the same fallback and failure semantics as ConfigPath.
func DetectDir(def Definition, platform string) (string, bool) {
	if def.Kind != KindFile || def.File == nil {
		return "", false
	}
	return resolveTemplate(def.File.DetectDir, platform)
}

func resolveTemplate(templates map[string]string, platform string) (string, bool) {
	raw, ok := templates[platform]
	if !ok || raw == "" {
		raw, ok = templates[PlatformAll]
	}
	if !ok || raw == "" {
		return "", false
	}
	return ExpandPath(raw, platform), true
}

// Installed reports whether a client is present on this system: a CLI
// client when its detect command resolves on PATH, a file client when its
// detect directory exists. Absence yields false, never an error.
func Installed(def Definition, platform string) bool {
	if def.Kind == KindCLI && def.CLI != nil {
		_, err := exec.LookPath(def.CLI.DetectCommand)
		return err == nil
	}
	dir, ok := DetectDir(def, platform)
	if !ok {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// ClientForPath maps a resolved config file path back to a client display
// name. Falls back to substring matching for paths that only resemble a
// known client's layout (legacy locations). Returns "Unknown" when nothing
// matches.
func ClientForPath(path, platform string) string {
	normalized := filepath.Clean(path)
	for _, d := range definitions {
		cfg, ok := ConfigPath(d, platform)
		if ok && normalized == cfg {
			return d.Name
		}
	}
	switch {
	case strings.Contains(normalized, ".cursor"):
		return "Cursor"
	case strings.Contains(normalized, filepath.Join(".codeium", "windsurf")):
		return "Windsurf"
	case strings.Contains(normalized, ".codeium"):
		return "Windsurf"
	case strings.Contains(normalized, "Claude"):
		return "Claude Desktop"
	case strings.Contains(normalized, "Code"):
		return "VS Code"
	default:
		return "Unknown"
	}
}

// FileConfigPaths returns the resolved config paths of every file-type
// client that has a template for the given platform, in registry order.
func FileConfigPaths(platform string) []string {
	paths := make([]string, 0, len(definitions))
	for _, d := range definitions {
		if p, ok := ConfigPath(d, platform); ok {
			paths = append(paths, p)
		}
	}
	return paths
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
