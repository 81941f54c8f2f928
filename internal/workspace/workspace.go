// Package workspace detects monorepo workspace declarations and resolves
// their member packages against a scan inventory.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andywolf/forge/internal/scanner"
	"github.com/bmatcuk/doublestar"
	"gopkg.in/yaml.v3"
)

// Kind names the tool that declares the workspace.
type Kind string

const (
	KindPnpm Kind = "pnpm"
	KindNpm  Kind = "npm"
	KindGo   Kind = "go"
)

// Workspace is a declared workspace and the directories it resolves to.
type Workspace struct {
	Kind     Kind
	File     string
	Patterns []string
	Members  []string
}

// pnpmWorkspace represents the structure of pnpm-workspace.yaml
type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// Detect returns the workspace declared at the project root, or nil when
// there is none. pnpm-workspace.yaml wins over package.json workspaces,
// which win over go.work.
func Detect(p *scanner.ProjectStructure) (*Workspace, error) {
	root := make(map[string]bool)
	for _, f := range p.RootFiles() {
		root[f.Path] = true
	}

	var (
		ws  *Workspace
		err error
	)
	switch {
	case root["pnpm-workspace.yaml"]:
		ws, err = parsePnpm(p.Root)
	case root[scanner.PackageJSONFile]:
		ws, err = parseNpm(p.Root)
	}
	if err != nil {
		return nil, err
	}
	if ws == nil && root["go.work"] {
		ws, err = parseGoWork(p.Root)
		if err != nil {
			return nil, err
		}
	}
	if ws == nil {
		return nil, nil
	}

	ws.Members = resolveMembers(ws.Patterns, p.Directories)
	return ws, nil
}

func parsePnpm(dir string) (*Workspace, error) {
	data, err := os.ReadFile(filepath.Join(dir, "pnpm-workspace.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read pnpm-workspace.yaml: %w", err)
	}

	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse pnpm-workspace.yaml: %w", err)
	}
	if len(ws.Packages) == 0 {
		return nil, nil
	}
	return &Workspace{Kind: KindPnpm, File: "pnpm-workspace.yaml", Patterns: ws.Packages}, nil
}

// parseNpm reads the "workspaces" field of package.json, which is either a
// list of patterns or an object with a "packages" list.
func parseNpm(dir string) (*Workspace, error) {
	data, err := os.ReadFile(filepath.Join(dir, scanner.PackageJSONFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", scanner.PackageJSONFile, err)
	}

	var pkg struct {
		Workspaces json.RawMessage `json:"workspaces"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", scanner.PackageJSONFile, err)
	}
	if len(pkg.Workspaces) == 0 {
		return nil, nil
	}

	var patterns []string
	if err := json.Unmarshal(pkg.Workspaces, &patterns); err != nil {
		var nested struct {
			Packages []string `json:"packages"`
		}
		if err := json.Unmarshal(pkg.Workspaces, &nested); err != nil {
			return nil, nil
		}
		patterns = nested.Packages
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return &Workspace{Kind: KindNpm, File: scanner.PackageJSONFile, Patterns: patterns}, nil
}

// parseGoWork collects the directories named by use directives, in both the
// single-line and block forms.
func parseGoWork(dir string) (*Workspace, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.work"))
	if err != nil {
		return nil, fmt.Errorf("failed to read go.work: %w", err)
	}

	var patterns []string
	inBlock := false
	for _, line := range strings.Split(string(data), "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		switch {
		case inBlock && line == ")":
			inBlock = false
		case inBlock && line != "":
			patterns = append(patterns, strings.Trim(line, `"`))
		case line == "use (":
			inBlock = true
		case strings.HasPrefix(line, "use "):
			patterns = append(patterns, strings.Trim(strings.TrimSpace(line[len("use "):]), `"`))
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return &Workspace{Kind: KindGo, File: "go.work", Patterns: patterns}, nil
}

// resolveMembers matches the workspace patterns against the scanned
// directories. Patterns starting with "!" remove earlier matches. The result
// is sorted and never contains the root itself.
func resolveMembers(patterns, dirs []string) []string {
	members := make(map[string]bool)
	for _, raw := range patterns {
		negate := strings.HasPrefix(raw, "!")
		pattern := NormalizePackagePath(strings.TrimPrefix(raw, "!"))
		if pattern == "" || pattern == "." {
			continue
		}
		for _, d := range dirs {
			ok, err := doublestar.Match(pattern, d)
			if err != nil || !ok {
				continue
			}
			if negate {
				delete(members, d)
			} else {
				members[d] = true
			}
		}
	}

	result := make([]string, 0, len(members))
	for d := range members {
		result = append(result, d)
	}
	sort.Strings(result)
	return result
}

// NormalizePackagePath cleans up a package path by removing leading "./" and trailing "/".
func NormalizePackagePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimSuffix(path, "/")
	return path
}
