package scanner

import (
	"os"
	"path/filepath"
	"sort"
)

// Options configures a scan. Zero values for the limits disable them.
type Options struct {
	Root             string
	MaxFiles         int
	MaxFileSizeKB    int
	ExcludePatterns  []string
	RespectGitignore bool
}

// Logger receives diagnostics for skipped entries and limits.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warning(msg string, fields map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})   {}
func (nopLogger) Info(string, map[string]interface{})    {}
func (nopLogger) Warning(string, map[string]interface{}) {}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithLogger routes scan diagnostics to l.
func WithLogger(l Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scanner analyzes a project directory. It holds no per-scan state, so one
// Scanner may be used for repeated scans.
type Scanner struct {
	opts   Options
	logger Logger
}

// New creates a new Scanner. A nil ExcludePatterns falls back to
// DefaultExcludePatterns; an empty non-nil slice disables exclusion.
func New(opts Options, options ...Option) *Scanner {
	if opts.ExcludePatterns == nil {
		opts.ExcludePatterns = DefaultExcludePatterns
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	s := &Scanner{opts: opts, logger: nopLogger{}}
	for _, o := range options {
		o(s)
	}
	return s
}

// Scan walks the root and returns the project inventory. The only error is a
// *ScanError for a root that is missing or not a directory.
func (s *Scanner) Scan() (*ProjectStructure, error) {
	root, err := resolveRoot(s.opts.Root)
	if err != nil {
		return nil, err
	}

	result := &ProjectStructure{
		Root:                 root,
		Name:                 filepath.Base(root),
		Files:                []FileInfo{},
		Directories:          []string{},
		Languages:            []LanguageCount{},
		DeclaredDependencies: map[string][]string{},
	}

	exclude := newExcludeMatcher(s.opts.ExcludePatterns)
	if s.opts.RespectGitignore && exclude.loadGitignore(root) {
		s.logger.Debug("loaded .gitignore", map[string]interface{}{"root": root})
	}

	report := func(sk Skip) {
		if result.Skipped == nil {
			result.Skipped = make(map[SkipReason]int)
		}
		result.Skipped[sk.Reason]++
		if sk.Warn() {
			s.logger.Warning(sk.Message(), sk.Fields())
		} else {
			s.logger.Debug(sk.Message(), sk.Fields())
		}
	}

	classifier := newClassifier(exclude, s.opts.MaxFileSizeKB)
	w := newWalker(root, exclude, report)

	w.walk(func(e entry) bool {
		if s.opts.MaxFiles > 0 && len(result.Files) >= s.opts.MaxFiles {
			// Files the patterns would drop anyway do not count as truncation.
			if !e.isDir {
				if sk := classifier.patternSkip(e); sk != nil {
					report(*sk)
					return true
				}
			}
			result.Truncated = true
			s.logger.Warning("max file limit reached, stopping scan", map[string]interface{}{
				"max_files": s.opts.MaxFiles,
				"next":      e.rel,
			})
			return false
		}
		if e.isDir {
			result.Directories = append(result.Directories, e.rel)
			return true
		}

		out := classifier.classify(e)
		if out.skip != nil {
			report(*out.skip)
		}
		if !out.include {
			return true
		}
		result.Files = append(result.Files, out.file)
		result.TotalLines += out.file.Lines()
		return true
	})

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Strings(result.Directories)
	result.TotalFiles = len(result.Files)

	result.Languages = detectLanguages(result.Files)
	result.PrimaryLanguage = primaryLanguage(result.Languages)

	extractMetadata(root, result, s.logger)

	s.logger.Info("scan complete", map[string]interface{}{
		"root":             root,
		"files":            result.TotalFiles,
		"lines":            result.TotalLines,
		"primary_language": result.PrimaryLanguage,
		"truncated":        result.Truncated,
	})

	return result, nil
}

// Scan is a convenience wrapper for New(opts).Scan().
func Scan(opts Options, options ...Option) (*ProjectStructure, error) {
	return New(opts, options...).Scan()
}

func resolveRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &ScanError{Root: path, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &ScanError{Root: abs, Err: err}
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return "", &ScanError{Root: abs, Err: err}
	}
	if !fi.IsDir() {
		return "", &ScanError{Root: abs}
	}
	return resolved, nil
}
