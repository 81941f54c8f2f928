// Package scanner walks a project directory and builds an inventory of its
// source files, language mix, and manifest metadata.
package scanner

import "strings"

// FileInfo describes a single included file.
type FileInfo struct {
	// Path is relative to the scan root and always uses forward slashes.
	Path      string `json:"path" yaml:"path"`
	Extension string `json:"extension" yaml:"extension"`
	Size      int64  `json:"size_bytes" yaml:"size_bytes"`
	// LineCount is nil for binary or unreadable files.
	LineCount *int `json:"line_count" yaml:"line_count"`
	Binary    bool `json:"binary,omitempty" yaml:"binary,omitempty"`
}

// Lines returns the line count, or 0 when it is unknown.
func (f FileInfo) Lines() int {
	if f.LineCount == nil {
		return 0
	}
	return *f.LineCount
}

// LanguageCount is one row of the language histogram.
type LanguageCount struct {
	Name  string `json:"name" yaml:"name"`
	Files int    `json:"files" yaml:"files"`
	Lines int    `json:"lines" yaml:"lines"`
}

// Dependency group names used in DeclaredDependencies.
const (
	GroupCore = "core"
	GroupDev  = "dev"
)

// ProjectStructure is the result of a scan. It is fully built by Scan and
// not modified afterwards.
type ProjectStructure struct {
	Root        string     `json:"root" yaml:"root"`
	Name        string     `json:"name" yaml:"name"`
	Files       []FileInfo `json:"files" yaml:"files"`
	Directories []string   `json:"directories" yaml:"directories"`
	TotalFiles  int        `json:"total_files" yaml:"total_files"`
	TotalLines  int        `json:"total_lines" yaml:"total_lines"`

	PrimaryLanguage string          `json:"primary_language,omitempty" yaml:"primary_language,omitempty"`
	Languages       []LanguageCount `json:"languages" yaml:"languages"`

	Version              string              `json:"version,omitempty" yaml:"version,omitempty"`
	Description          string              `json:"description,omitempty" yaml:"description,omitempty"`
	DeclaredDependencies map[string][]string `json:"declared_dependencies" yaml:"declared_dependencies"`

	// Skipped counts recoverable problems by reason.
	Skipped map[SkipReason]int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	// Truncated is set when the max file limit stopped the walk early.
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// LanguageCounts returns the histogram as a name -> file count map.
func (p *ProjectStructure) LanguageCounts() map[string]int {
	counts := make(map[string]int, len(p.Languages))
	for _, l := range p.Languages {
		counts[l.Name] = l.Files
	}
	return counts
}

// Language returns the histogram row for name.
func (p *ProjectStructure) Language(name string) (LanguageCount, bool) {
	for _, l := range p.Languages {
		if l.Name == name {
			return l, true
		}
	}
	return LanguageCount{}, false
}

// TopLevelDirectories returns directories directly under the root.
func (p *ProjectStructure) TopLevelDirectories() []string {
	var dirs []string
	for _, d := range p.Directories {
		if !strings.Contains(d, "/") {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// RootFiles returns the files that live directly in the root directory.
func (p *ProjectStructure) RootFiles() []FileInfo {
	var files []FileInfo
	for _, f := range p.Files {
		if !strings.Contains(f.Path, "/") {
			files = append(files, f)
		}
	}
	return files
}
