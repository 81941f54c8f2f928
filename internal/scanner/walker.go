package scanner

import (
	"os"
	"path/filepath"
)

// entry is a filesystem entry reached by the walker.
type entry struct {
	abs   string // logical absolute path (symlinks not resolved)
	rel   string // forward-slash path relative to the root
	name  string
	isDir bool
}

// walker traverses one tree. A fresh walker is built for every scan so the
// set of visited real paths never leaks between scans.
type walker struct {
	root    string
	exclude *excludeMatcher
	seen    map[string]struct{}
	report  func(Skip)
}

func newWalker(root string, exclude *excludeMatcher, report func(Skip)) *walker {
	return &walker{
		root:    root,
		exclude: exclude,
		seen:    make(map[string]struct{}),
		report:  report,
	}
}

// walk visits every reachable entry depth-first, in name order within each
// directory. Directories are visited before their contents. visit returns
// false to stop the whole walk.
func (w *walker) walk(visit func(entry) bool) {
	resolved, err := filepath.EvalSymlinks(w.root)
	if err != nil {
		w.report(Skip{Path: ".", Reason: SkipDirUnreadable, Err: err})
		return
	}
	w.seen[resolved] = struct{}{}
	w.walkDir(w.root, "", visit)
}

func (w *walker) walkDir(abs, rel string, visit func(entry) bool) bool {
	entries, err := os.ReadDir(abs)
	if err != nil {
		w.report(Skip{Path: displayPath(rel), Reason: SkipDirUnreadable, Err: err})
		return true
	}

	for _, de := range entries {
		e := entry{
			abs:  filepath.Join(abs, de.Name()),
			rel:  joinRel(rel, de.Name()),
			name: de.Name(),
		}

		if de.Type()&os.ModeSymlink != 0 {
			fi, err := os.Stat(e.abs)
			if err != nil {
				w.report(Skip{Path: e.rel, Reason: SkipStatFailed, Err: err})
				continue
			}
			e.isDir = fi.IsDir()
		} else {
			e.isDir = de.IsDir()
		}

		if !e.isDir {
			if !visit(e) {
				return false
			}
			continue
		}

		if w.exclude.excluded(e.name, e.rel) {
			w.report(Skip{Path: e.rel, Reason: SkipExcluded})
			continue
		}
		if w.exclude.ignored(e.rel, true) {
			w.report(Skip{Path: e.rel, Reason: SkipGitignored})
			continue
		}

		resolved, err := filepath.EvalSymlinks(e.abs)
		if err != nil {
			w.report(Skip{Path: e.rel, Reason: SkipDirUnreadable, Err: err})
			continue
		}
		if _, ok := w.seen[resolved]; ok {
			w.report(Skip{Path: e.rel, Reason: SkipCycle})
			continue
		}
		w.seen[resolved] = struct{}{}

		if !visit(e) {
			return false
		}
		if !w.walkDir(e.abs, e.rel, visit) {
			return false
		}
	}
	return true
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
