package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExcludePatterns are applied when no patterns are configured.
var DefaultExcludePatterns = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"__pycache__",
	".venv",
	"venv",
	".tox",
	".mypy_cache",
	".pytest_cache",
	".ruff_cache",
	"dist",
	"build",
	"target",
	".next",
	".idea",
	".vscode",
	"*.egg-info",
	"*.pyc",
	"*.pyo",
	".DS_Store",
	".coverage",
}

// ValidatePattern returns doublestar.ErrBadPattern for globs the matcher
// rejects while matching a probe name.
func ValidatePattern(pattern string) error {
	_, err := doublestar.Match(pattern, "probe")
	return err
}

// excludeMatcher decides whether an entry is excluded. Patterns without a
// slash match bare names; patterns with a slash match the relative path.
type excludeMatcher struct {
	names     []string
	paths     []string
	gitignore *ignore.GitIgnore
}

func newExcludeMatcher(patterns []string) *excludeMatcher {
	m := &excludeMatcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			m.paths = append(m.paths, strings.Trim(p, "/"))
		} else {
			m.names = append(m.names, p)
		}
	}
	return m
}

// loadGitignore compiles root/.gitignore into the matcher. A missing or
// malformed file leaves the matcher unchanged.
func (m *excludeMatcher) loadGitignore(root string) bool {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return false
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return false
	}
	m.gitignore = gi
	return true
}

// matchName reports whether a bare file or directory name is excluded.
func (m *excludeMatcher) matchName(name string) bool {
	for _, p := range m.names {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// matchPath reports whether the relative path is excluded by a path pattern.
func (m *excludeMatcher) matchPath(rel string) bool {
	for _, p := range m.paths {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// excluded checks name and path patterns for a single entry.
func (m *excludeMatcher) excluded(name, rel string) bool {
	return m.matchName(name) || m.matchPath(rel)
}

// excludedAncestor reports whether any parent directory of rel is excluded.
func (m *excludeMatcher) excludedAncestor(rel string) bool {
	parts := strings.Split(rel, "/")
	for i := 0; i < len(parts)-1; i++ {
		if m.excluded(parts[i], strings.Join(parts[:i+1], "/")) {
			return true
		}
	}
	return false
}

// ignored reports whether the root .gitignore matches rel.
func (m *excludeMatcher) ignored(rel string, isDir bool) bool {
	if m.gitignore == nil {
		return false
	}
	if m.gitignore.MatchesPath(rel) {
		return true
	}
	return isDir && m.gitignore.MatchesPath(rel+"/")
}
